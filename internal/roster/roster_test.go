package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseStructuredShape(t *testing.T) {
	r := Parse([]byte(`{"clients": [
		{"name": "Acme Corp", "key": "acme"},
		{"name": "Globex", "key": "glx"}
	]}`))

	if r.Len() != 2 {
		t.Fatalf("expected 2 mappings, got %d", r.Len())
	}

	key, ok := r.KeyFor("Acme Corp")
	if !ok || key != "acme" {
		t.Errorf("KeyFor(Acme Corp) = %q, %v; want acme, true", key, ok)
	}
}

func TestParseFlatShape(t *testing.T) {
	r := Parse([]byte(`{"Acme Corp": "acme", "Globex": "glx"}`))

	if r.Len() != 2 {
		t.Fatalf("expected 2 mappings, got %d", r.Len())
	}
	if key, ok := r.KeyFor("Globex"); !ok || key != "glx" {
		t.Errorf("KeyFor(Globex) = %q, %v; want glx, true", key, ok)
	}
}

func TestKeyForIsCaseInsensitive(t *testing.T) {
	r := Parse([]byte(`{"Acme Corp": "acme"}`))

	for _, name := range []string{"acme corp", "ACME CORP", "  Acme Corp  "} {
		if key, ok := r.KeyFor(name); !ok || key != "acme" {
			t.Errorf("KeyFor(%q) = %q, %v; want acme, true", name, key, ok)
		}
	}
}

func TestKeyForMissing(t *testing.T) {
	r := Parse([]byte(`{"Acme Corp": "acme"}`))

	if _, ok := r.KeyFor("Unknown"); ok {
		t.Error("expected no mapping for unknown client")
	}
	if _, ok := Empty().KeyFor("Acme Corp"); ok {
		t.Error("expected no mapping from empty roster")
	}
}

func TestParseToleratesCommentsAndTrailingCommas(t *testing.T) {
	r := Parse([]byte(`{
		// billing keys, keep in sync with the invoicing sheet
		"Acme Corp": "acme",
	}`))

	if key, ok := r.KeyFor("Acme Corp"); !ok || key != "acme" {
		t.Errorf("KeyFor(Acme Corp) = %q, %v; want acme, true", key, ok)
	}
}

func TestParseMalformedYieldsEmpty(t *testing.T) {
	for _, bad := range []string{"not json", "[1,2,3]", ""} {
		r := Parse([]byte(bad))
		if r.Len() != 0 {
			t.Errorf("Parse(%q) expected empty roster, got %d mappings", bad, r.Len())
		}
	}
}

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	r := Load(filepath.Join(t.TempDir(), "nope.json"))
	if r.Len() != 0 {
		t.Errorf("expected empty roster for missing file, got %d mappings", r.Len())
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), RosterFile)
	if err := os.WriteFile(path, []byte(`{"Acme": "acme-billing"}`), 0644); err != nil {
		t.Fatalf("write roster: %v", err)
	}

	r := Load(path)
	if key, ok := r.KeyFor("Acme"); !ok || key != "acme-billing" {
		t.Errorf("KeyFor(Acme) = %q, %v; want acme-billing, true", key, ok)
	}
}
