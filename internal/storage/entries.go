package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tally/internal/entry"
)

// OversampleFactor is how many times the caller's requested limit ListRaw
// fetches. The query layer applies a date-range post-filter in memory, so
// the store oversamples to leave room for rows that filter drops. This is a
// heuristic cap, not a guarantee: a wide enough date window can still
// return fewer rows than qualify.
const OversampleFactor = 5

// selectColumns reads every entry field, collapsing NULLs in optional text
// columns to empty strings (legacy rows store NULL where newer rows store '').
const selectColumns = `
	id, client, client_key, start_iso,
	COALESCE(end_iso, '') AS end_iso,
	minutes, rounded_minutes, rounded_hours, elapsed_minutes,
	COALESCE(note, '') AS note,
	completed,
	COALESCE(invoice_number, '') AS invoice_number,
	COALESCE(created_at, '') AS created_at`

// openPredicate matches open sessions. Rows written by older builds store
// NULL for an open end timestamp; this build stores NULL as well, but rows
// that round-tripped through an edit may hold ''.
const openPredicate = `(end_iso IS NULL OR end_iso = '')`

// RawFilter is the store-level predicate for ListRaw. Zero values mean "no
// filter" for every field. Text matches as a substring across client,
// client_key, note and invoice_number.
type RawFilter struct {
	Client    string
	ClientKey string
	Completed *int
	Text      string
	OpenOnly  bool
	Limit     int // caller's requested output limit; 0 means unbounded
}

// Create persists a new entry and assigns its id. All fields are stored
// verbatim; no derived computation happens here.
func (s *Store) Create(ctx context.Context, e *entry.Entry) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO entries
			(client, client_key, start_iso, end_iso, minutes, rounded_minutes,
			 rounded_hours, elapsed_minutes, note, completed, invoice_number, created_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?)`,
		e.Client, e.ClientKey, e.StartISO, e.EndISO, e.Minutes, e.RoundedMinutes,
		e.RoundedHours, e.ElapsedMinutes, e.Note, e.Completed, e.InvoiceNumber, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("entry id: %w", err)
	}
	e.ID = id

	return nil
}

// Get returns the entry with the given id, or ErrNotFound
func (s *Store) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	var e entry.Entry
	err := s.db.GetContext(ctx, &e,
		`SELECT `+selectColumns+` FROM entries WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return &e, nil
}

// Update fetches the entry with the given id, applies mutate to it, and
// persists the result. Returns ErrNotFound when the id does not exist, and
// the mutator's error unchanged when it fails.
func (s *Store) Update(ctx context.Context, id int64, mutate func(*entry.Entry) error) (*entry.Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(e); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE entries SET
			client = ?, client_key = ?, start_iso = ?, end_iso = NULLIF(?, ''),
			minutes = ?, rounded_minutes = ?, rounded_hours = ?, elapsed_minutes = ?,
			note = ?, completed = ?, invoice_number = NULLIF(?, ''), created_at = ?
		WHERE id = ?`,
		e.Client, e.ClientKey, e.StartISO, e.EndISO,
		e.Minutes, e.RoundedMinutes, e.RoundedHours, e.ElapsedMinutes,
		e.Note, e.Completed, e.InvoiceNumber, e.CreatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update entry %d: %w", id, err)
	}

	return e, nil
}

// Delete removes the entry with the given id. Deletion is physical and
// immediate; a missing id surfaces as ErrNotFound, never silently.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListRaw returns entries matching the store-level filter, ordered by id
// descending. When a limit is set the scan is capped at OversampleFactor
// times it; the caller sorts and truncates after its own post-filtering.
func (s *Store) ListRaw(ctx context.Context, f RawFilter) ([]entry.Entry, error) {
	var (
		where []string
		args  []interface{}
	)

	if f.Client != "" {
		where = append(where, "client = ?")
		args = append(args, f.Client)
	}
	if f.ClientKey != "" {
		where = append(where, "client_key = ?")
		args = append(args, f.ClientKey)
	}
	if f.Completed != nil {
		where = append(where, "completed = ?")
		args = append(args, *f.Completed)
	}
	if f.Text != "" {
		like := "%" + f.Text + "%"
		where = append(where, `(client LIKE ? OR client_key LIKE ? OR COALESCE(note, '') LIKE ? OR COALESCE(invoice_number, '') LIKE ?)`)
		args = append(args, like, like, like, like)
	}
	if f.OpenOnly {
		where = append(where, openPredicate)
	}

	query := `SELECT ` + selectColumns + ` FROM entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit*OversampleFactor)
	}

	entries := []entry.Entry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}
