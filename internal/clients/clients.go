// Package clients is a generic JSON document store for per-client metadata:
// a mapping from client display name to an arbitrary attribute map. The
// tracking engine never inspects attribute contents; it only keys by name.
package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tailscale/hujson"

	"tally/internal/osutil"
)

// TableFile is the name of the client metadata document
const TableFile = "clients.json"

// Attributes is one client's metadata document
type Attributes map[string]interface{}

// Table is the full client metadata mapping
type Table map[string]Attributes

// Store-specific errors
var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientExists   = errors.New("client already exists")
	ErrEmptyName      = errors.New("client name is required")
)

// Store reads and writes the client metadata document at a fixed path.
// Every operation re-reads the file; there is no in-process cache.
type Store struct {
	path string
}

// GetTablePath returns the default path of the client metadata file
func GetTablePath() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tally", TableFile), nil
}

// NewStore creates a store backed by the document at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the full table. A missing or malformed file yields an empty
// table; non-object attribute values are wrapped as {"value": v} so callers
// always see a map.
func (s *Store) Load() Table {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Table{}
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Table{}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(standardized, &raw); err != nil {
		return Table{}
	}

	table := Table{}
	for name, v := range raw {
		if attrs, ok := v.(map[string]interface{}); ok {
			table[name] = attrs
			continue
		}
		table[name] = Attributes{"value": v}
	}

	return table
}

// Save writes the full table as pretty-printed JSON
func (s *Store) Save(table Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create clients dir: %w", err)
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("encode clients table: %w", err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write clients table: %w", err)
	}

	return nil
}

// Get returns one client's attributes, or ErrClientNotFound
func (s *Store) Get(name string) (Attributes, error) {
	table := s.Load()
	attrs, ok := table[name]
	if !ok {
		return nil, ErrClientNotFound
	}
	return attrs, nil
}

// Create adds a new client with the given attributes. Fails with
// ErrClientExists when the name is already present.
func (s *Store) Create(name string, attrs Attributes) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if attrs == nil {
		attrs = Attributes{}
	}

	table := s.Load()
	if _, ok := table[name]; ok {
		return ErrClientExists
	}
	table[name] = attrs

	return s.Save(table)
}

// Upsert merges the given attributes into a client's document, creating the
// client when absent. Existing keys not named in attrs are preserved.
func (s *Store) Upsert(name string, attrs Attributes) (Attributes, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	table := s.Load()
	existing, ok := table[name]
	if !ok {
		existing = Attributes{}
	}
	for k, v := range attrs {
		existing[k] = v
	}
	table[name] = existing

	if err := s.Save(table); err != nil {
		return nil, err
	}

	return existing, nil
}

// Columns returns the sorted union of attribute keys across all clients,
// used by listings to build a dynamic column set.
func (t Table) Columns() []string {
	seen := map[string]bool{}
	for _, attrs := range t {
		for k := range attrs {
			seen[k] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	return columns
}
