package service

import (
	"strings"

	"tally/internal/entry"
	"tally/internal/roster"
)

// Sort policies for entry listings. Each is a total order with id as the
// final tiebreak.
const (
	// SortIDAsc orders by ascending id
	SortIDAsc = "id_asc"
	// SortStartAsc orders lexicographically on start_iso. All timestamps
	// share one ISO layout in a single configured zone, so lexicographic
	// order matches chronological order.
	SortStartAsc = "start_asc"
	// SortStartDesc is SortStartAsc reversed
	SortStartDesc = "start_desc"
	// SortOpenFirstNewest is the default: entries not yet marked complete
	// first, newest (highest id) first within each group
	SortOpenFirstNewest = "open_first_newest"
)

// Status filter values. "open" and "done" map onto the completed flag;
// anything else applies no filter. This is orthogonal to whether the
// session itself is open or closed.
const (
	StatusOpen = "open"
	StatusDone = "done"
)

// QueryParams selects, orders, and bounds a listing of entries
type QueryParams struct {
	Client    string
	ClientKey string
	Status    string
	Text      string
	Since     string // calendar date YYYY-MM-DD, inclusive; malformed = no bound
	Until     string // calendar date YYYY-MM-DD, inclusive; malformed = no bound
	Sort      string // one of the Sort constants; unknown = SortOpenFirstNewest
	Limit     int    // output cap; 0 = configured default
}

// deriveKey resolves a client key using the precedence applied by every
// write path: explicit caller-supplied key, then roster lookup by display
// name, then the slugified client name.
func deriveKey(explicit, client string, r *roster.Roster) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	if key, ok := r.KeyFor(client); ok {
		return key
	}
	return entry.SafeKey(client)
}

// filterKey resolves the key used to narrow session lookups: explicit, then
// roster, otherwise empty (no key filter). Stop must not slug the client
// name here - a session started with a roster key would never match.
func filterKey(explicit, client string, r *roster.Roster) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	if key, ok := r.KeyFor(client); ok {
		return key
	}
	return ""
}
