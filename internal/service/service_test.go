package service

import (
	"path/filepath"
	"testing"
	"time"

	"tally/internal/clients"
	"tally/internal/config"
	"tally/internal/entry"
	"tally/internal/roster"
	"tally/internal/storage"
)

// newTestServices builds a Services wired to a throwaway database, an empty
// roster, and the UTC zone so pinned timestamps render predictably.
func newTestServices(t *testing.T) *Services {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, storage.DatabaseFile))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"

	svc, err := NewServicesWithDeps(store, roster.Empty(), clients.NewStore(filepath.Join(dir, clients.TableFile)), cfg)
	if err != nil {
		t.Fatalf("build services: %v", err)
	}
	return svc
}

// newTestServicesWithRoster is newTestServices with a roster parsed from raw
// file contents.
func newTestServicesWithRoster(t *testing.T, rosterJSON string) *Services {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, storage.DatabaseFile))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"

	svc, err := NewServicesWithDeps(store, roster.Parse([]byte(rosterJSON)), clients.NewStore(filepath.Join(dir, clients.TableFile)), cfg)
	if err != nil {
		t.Fatalf("build services: %v", err)
	}
	return svc
}

// pinClock freezes every service clock at t0
func pinClock(svc *Services, t0 time.Time) {
	svc.Session.now = func() time.Time { return t0 }
	svc.Entry.now = func() time.Time { return t0 }
	svc.Interchange.now = func() time.Time { return t0 }
}

// testCompletedEntry returns a closed one-hour entry used as edit fodder
func testCompletedEntry() entry.Entry {
	return entry.Entry{
		Client:         "Acme",
		ClientKey:      "acme",
		StartISO:       "2025-01-15T09:00:00+00:00",
		EndISO:         "2025-01-15T10:00:00+00:00",
		Minutes:        60,
		RoundedMinutes: 60,
		RoundedHours:   "1.00",
		ElapsedMinutes: 60,
	}
}

// ids extracts the id column from a result slice for order assertions
func ids(rows []entry.Entry) []int64 {
	out := make([]int64, len(rows))
	for i, e := range rows {
		out[i] = e.ID
	}
	return out
}
