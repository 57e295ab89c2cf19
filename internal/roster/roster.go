// Package roster maps client display names to billing keys. The mapping is
// loaded once at startup from a human-edited JSON file; changing it requires
// a restart or an explicit reload, never file watching.
package roster

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"tally/internal/osutil"
)

// RosterFile is the name of the roster mapping file
const RosterFile = "roster.json"

// Roster holds the client name to client key mapping. Lookup is
// case-insensitive on the display name.
type Roster struct {
	keys map[string]string
}

// rosterDoc is the structured file shape: {"clients": [{"name": ..., "key": ...}]}.
// A flat {"Name": "key"} object is also accepted.
type rosterDoc struct {
	Clients []struct {
		Name string `json:"name"`
		Key  string `json:"key"`
	} `json:"clients"`
}

// Empty returns a roster with no mappings
func Empty() *Roster {
	return &Roster{keys: map[string]string{}}
}

// GetRosterPath returns the default path of the roster file, alongside the
// database in the application config directory.
func GetRosterPath() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tally", RosterFile), nil
}

// Load reads the roster file at path. The file is parsed leniently (comments
// and trailing commas are allowed); a missing or malformed file yields an
// empty roster rather than an error, because a roster is optional and the
// engine falls back to slugging client names.
func Load(path string) *Roster {
	data, err := os.ReadFile(path)
	if err != nil {
		return Empty()
	}
	return Parse(data)
}

// Parse builds a roster from raw file contents, accepting both file shapes.
func Parse(data []byte) *Roster {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Empty()
	}

	r := Empty()

	var doc rosterDoc
	if err := json.Unmarshal(standardized, &doc); err == nil && len(doc.Clients) > 0 {
		for _, c := range doc.Clients {
			if c.Name == "" || c.Key == "" {
				continue
			}
			r.keys[normalize(c.Name)] = strings.TrimSpace(c.Key)
		}
		return r
	}

	var flat map[string]string
	if err := json.Unmarshal(standardized, &flat); err == nil {
		for name, key := range flat {
			if name == "" || key == "" {
				continue
			}
			r.keys[normalize(name)] = strings.TrimSpace(key)
		}
	}

	return r
}

// KeyFor returns the client key mapped to a display name, case-insensitively.
// The second return is false when no mapping exists.
func (r *Roster) KeyFor(client string) (string, bool) {
	if r == nil {
		return "", false
	}
	key, ok := r.keys[normalize(client)]
	return key, ok
}

// Len returns the number of mappings
func (r *Roster) Len() int {
	return len(r.keys)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
