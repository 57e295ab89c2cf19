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

// EntryService maintains individual entries outside the session workflow:
// manual creation, edits, workflow flags, and deletion.
type EntryService struct {
	store  *storage.Store
	roster *roster.Roster
	loc    *time.Location

	now func() time.Time
}

// NewEntryService creates an entry service
func NewEntryService(store *storage.Store, r *roster.Roster, loc *time.Location) *EntryService {
	return &EntryService{
		store:  store,
		roster: r,
		loc:    loc,
		now:    func() time.Time { return nowIn(loc) },
	}
}

// ManualParams describes a completed entry added directly, bypassing
// start/stop. Date is mm/dd/yyyy; StartClock and EndClock accept flexible
// clock shapes ("4:30 PM", "1630", "16").
type ManualParams struct {
	Client     string `json:"client"`
	ClientKey  string `json:"client_key"`
	Date       string `json:"date"`
	StartClock string `json:"start"`
	EndClock   string `json:"end"`
	Note       string `json:"note"`
	Invoice    string `json:"invoice_number"`
}

// AddManual records a completed entry from a date and a clock-time range.
// An end clock at or before the start clock is taken to mean the session ran
// past midnight and rolls the end to the next day. Duration fields are
// derived the same way Stop derives them.
func (s *EntryService) AddManual(ctx context.Context, p ManualParams) (*entry.Entry, error) {
	client := strings.TrimSpace(p.Client)
	if client == "" {
		return nil, fmt.Errorf("client is required")
	}

	date, err := timeutil.ParseDateMDY(p.Date, s.loc)
	if err != nil {
		return nil, err
	}
	startClock, err := timeutil.ParseClockTime(p.StartClock)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	endClock, err := timeutil.ParseClockTime(p.EndClock)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	start := timeutil.Combine(date, startClock, s.loc)
	end := timeutil.Combine(date, endClock, s.loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	e := &entry.Entry{
		Client:        client,
		ClientKey:     deriveKey(p.ClientKey, client, s.roster),
		StartISO:      timeutil.FormatISO(start),
		EndISO:        timeutil.FormatISO(end),
		Note:          strings.TrimSpace(p.Note),
		InvoiceNumber: strings.TrimSpace(p.Invoice),
		CreatedAt:     timeutil.FormatISO(s.now()),
	}
	e.Minutes, e.RoundedMinutes, e.RoundedHours = timemath.Compute(start, end)
	e.ElapsedMinutes = e.Minutes

	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// Get returns one entry by id
func (s *EntryService) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	return s.store.Get(ctx, id)
}

// EditParams is a full overwrite of an entry's editable fields. Every field
// is applied as given; callers wanting to keep a field pass its current
// value (Patch offers field-at-a-time semantics instead).
type EditParams struct {
	Client        string
	ClientKey     string
	StartISO      string
	EndISO        string
	Note          string
	Completed     int
	InvoiceNumber string
}

// Edit overwrites an entry's editable fields and recomputes its duration from
// the new timestamps. When either timestamp fails to parse the duration
// fields are left as they were; an edit that only touches the note or invoice
// must not zero out recorded time.
func (s *EntryService) Edit(ctx context.Context, id int64, p EditParams) (*entry.Entry, error) {
	client := strings.TrimSpace(p.Client)
	if client == "" {
		return nil, fmt.Errorf("client is required")
	}

	return s.store.Update(ctx, id, func(e *entry.Entry) error {
		e.Client = client
		e.ClientKey = deriveKey(p.ClientKey, client, s.roster)
		e.StartISO = strings.TrimSpace(p.StartISO)
		e.EndISO = strings.TrimSpace(p.EndISO)
		e.Note = p.Note
		e.Completed = normalizeCompleted(p.Completed)
		e.InvoiceNumber = strings.TrimSpace(p.InvoiceNumber)

		recomputeDuration(e)
		return nil
	})
}

// Patch applies only the fields present in changes, a map keyed by the
// entry's JSON field names. Unknown keys are rejected; recognized keys with
// unusable values are ignored. Duration is recomputed after timestamp
// changes, with the same keep-on-parse-failure rule Edit applies.
func (s *EntryService) Patch(ctx context.Context, id int64, changes map[string]interface{}) (*entry.Entry, error) {
	for key := range changes {
		switch key {
		case "client", "client_key", "start_iso", "end_iso", "note", "completed", "invoice_number":
		default:
			return nil, fmt.Errorf("unknown field %q", key)
		}
	}

	return s.store.Update(ctx, id, func(e *entry.Entry) error {
		touchedTime := false

		if v, ok := stringField(changes, "client"); ok && strings.TrimSpace(v) != "" {
			e.Client = strings.TrimSpace(v)
		}
		if v, ok := stringField(changes, "client_key"); ok {
			e.ClientKey = strings.TrimSpace(v)
		}
		if v, ok := stringField(changes, "start_iso"); ok {
			e.StartISO = strings.TrimSpace(v)
			touchedTime = true
		}
		if v, ok := stringField(changes, "end_iso"); ok {
			e.EndISO = strings.TrimSpace(v)
			touchedTime = true
		}
		if v, ok := stringField(changes, "note"); ok {
			e.Note = v
		}
		if v, ok := intField(changes, "completed"); ok {
			e.Completed = normalizeCompleted(v)
		}
		if v, ok := stringField(changes, "invoice_number"); ok {
			e.InvoiceNumber = strings.TrimSpace(v)
		}

		if touchedTime {
			recomputeDuration(e)
		}
		return nil
	})
}

// SetCompleted sets the billing workflow flag
func (s *EntryService) SetCompleted(ctx context.Context, id int64, done bool) (*entry.Entry, error) {
	return s.store.Update(ctx, id, func(e *entry.Entry) error {
		if done {
			e.Completed = 1
		} else {
			e.Completed = 0
		}
		return nil
	})
}

// ToggleCompleted flips the billing workflow flag
func (s *EntryService) ToggleCompleted(ctx context.Context, id int64) (*entry.Entry, error) {
	return s.store.Update(ctx, id, func(e *entry.Entry) error {
		if e.IsDone() {
			e.Completed = 0
		} else {
			e.Completed = 1
		}
		return nil
	})
}

// SetInvoice stamps an entry with an invoice number. An empty number clears
// the stamp.
func (s *EntryService) SetInvoice(ctx context.Context, id int64, invoice string) (*entry.Entry, error) {
	return s.store.Update(ctx, id, func(e *entry.Entry) error {
		e.InvoiceNumber = strings.TrimSpace(invoice)
		return nil
	})
}

// Delete removes an entry permanently
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// recomputeDuration rederives the three duration fields from the entry's
// timestamps. Open entries and entries whose timestamps do not parse keep
// their current duration fields.
func recomputeDuration(e *entry.Entry) {
	if e.EndISO == "" {
		return
	}
	start, err := timeutil.ParseISO(e.StartISO)
	if err != nil {
		return
	}
	end, err := timeutil.ParseISO(e.EndISO)
	if err != nil {
		return
	}
	e.Minutes, e.RoundedMinutes, e.RoundedHours = timemath.Compute(start, end)
	e.ElapsedMinutes = e.Minutes
}

// normalizeCompleted collapses the flag to 0 or 1
func normalizeCompleted(v int) int {
	if v != 0 {
		return 1
	}
	return 0
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intField(m map[string]interface{}, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
