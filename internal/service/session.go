package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tally/internal/entry"
	"tally/internal/roster"
	"tally/internal/storage"
	"tally/internal/timemath"
	"tally/internal/timeutil"
)

// ErrNoActiveSession is returned by Stop when no open session matches the
// given client. It wraps storage.ErrNotFound so callers can treat both as
// a lookup miss.
var ErrNoActiveSession = fmt.Errorf("no active session to stop: %w", storage.ErrNotFound)

// SessionService implements the start/stop session workflow
type SessionService struct {
	store  *storage.Store
	roster *roster.Roster
	loc    *time.Location

	// now is swappable for tests
	now func() time.Time
}

// NewSessionService creates a session service
func NewSessionService(store *storage.Store, r *roster.Roster, loc *time.Location) *SessionService {
	return &SessionService{
		store:  store,
		roster: r,
		loc:    loc,
		now:    func() time.Time { return nowIn(loc) },
	}
}

// Start opens a new session for client at the current instant. The client key
// is the explicit key when given, the roster mapping when one exists,
// otherwise the slugified client name. Starting never checks for existing
// open sessions; overlapping sessions for the same or different clients are
// allowed and each is billed independently.
func (s *SessionService) Start(ctx context.Context, client, explicitKey, note string) (*entry.Entry, error) {
	client = strings.TrimSpace(client)
	if client == "" {
		return nil, fmt.Errorf("client is required")
	}

	nowISO := timeutil.FormatISO(s.now())
	e := &entry.Entry{
		Client:       client,
		ClientKey:    deriveKey(explicitKey, client, s.roster),
		StartISO:     nowISO,
		RoundedHours: "0.00",
		Note:         strings.TrimSpace(note),
		CreatedAt:    nowISO,
	}

	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// Stop closes the most recently started open session matching client and
// records its duration. The lookup narrows by exact client name and, when an
// explicit key or roster mapping exists, by client key; unlike Start it never
// slugs the client name, since a session started under a roster key would not
// match its own slug. Among matching open sessions the one with the highest
// id wins. An optional note is appended to the session's existing note.
func (s *SessionService) Stop(ctx context.Context, client, explicitKey, note string) (*entry.Entry, error) {
	client = strings.TrimSpace(client)

	open, err := s.store.ListRaw(ctx, storage.RawFilter{
		Client:    client,
		ClientKey: filterKey(explicitKey, client, s.roster),
		OpenOnly:  true,
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, ErrNoActiveSession
	}

	end := s.now()
	return s.store.Update(ctx, open[0].ID, func(e *entry.Entry) error {
		start, err := timeutil.ParseISO(e.StartISO)
		if err != nil {
			return fmt.Errorf("session %d has unreadable start: %w", e.ID, err)
		}

		e.EndISO = timeutil.FormatISO(end)
		e.Minutes, e.RoundedMinutes, e.RoundedHours = timemath.Compute(start, end)
		e.ElapsedMinutes = e.Minutes
		e.AppendNote(strings.TrimSpace(note))
		return nil
	})
}

// Active returns all open sessions, optionally narrowed to one client,
// newest first
func (s *SessionService) Active(ctx context.Context, client, explicitKey string) ([]entry.Entry, error) {
	client = strings.TrimSpace(client)
	return s.store.ListRaw(ctx, storage.RawFilter{
		Client:    client,
		ClientKey: filterKey(explicitKey, client, s.roster),
		OpenOnly:  true,
	})
}
