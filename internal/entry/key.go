package entry

import "strings"

// SafeKey derives a grouping slug from a client display name: lowercase,
// with every run of characters outside [a-z0-9-] collapsed to a single
// hyphen and leading/trailing hyphens trimmed.
//
// Examples:
//   - "Acme Corp"      -> "acme-corp"
//   - "  Big & Co.  "  -> "big-co"
//   - "already-a-key"  -> "already-a-key"
func SafeKey(client string) string {
	lower := strings.ToLower(client)

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return strings.Trim(b.String(), "-")
}
