package service

import (
	"context"
	"sort"
	"time"

	"tally/internal/entry"
	"tally/internal/storage"
	"tally/internal/timeutil"
)

// QueryService is the read side: it pushes the filters the store can index
// down to SQL, applies date bounds and ordering in memory, and truncates to
// the caller's limit last so the limit always caps the final result.
type QueryService struct {
	store        *storage.Store
	loc          *time.Location
	defaultLimit int
}

// NewQueryService creates a query service
func NewQueryService(store *storage.Store, loc *time.Location, defaultLimit int) *QueryService {
	return &QueryService{store: store, loc: loc, defaultLimit: defaultLimit}
}

// List returns entries matching p, ordered per p.Sort and capped at p.Limit.
//
// Date bounds are calendar dates, inclusive on both ends, compared against
// each entry's start date in the configured timezone. A bound that fails to
// parse is ignored rather than rejected, so a typo widens a report instead of
// erroring it out. Entries whose start timestamp cannot be parsed are
// excluded only while a date bound is active.
func (s *QueryService) List(ctx context.Context, p QueryParams) ([]entry.Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	rows, err := s.store.ListRaw(ctx, storage.RawFilter{
		Client:    p.Client,
		ClientKey: p.ClientKey,
		Completed: completedFilter(p.Status),
		Text:      p.Text,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	rows = s.filterDates(rows, p.Since, p.Until)
	sortEntries(rows, p.Sort)

	if len(rows) > limit {
		rows = rows[:limit]
	}

	return rows, nil
}

// completedFilter maps a status word onto the completed column filter.
// Unrecognized words mean no filter.
func completedFilter(status string) *int {
	var v int
	switch status {
	case StatusOpen:
		v = 0
	case StatusDone:
		v = 1
	default:
		return nil
	}
	return &v
}

// filterDates keeps rows whose start date falls within [since, until]
func (s *QueryService) filterDates(rows []entry.Entry, since, until string) []entry.Entry {
	var lower, upper *time.Time
	if since != "" {
		if t, err := timeutil.ParseDate(since, s.loc); err == nil {
			lower = &t
		}
	}
	if until != "" {
		if t, err := timeutil.ParseDate(until, s.loc); err == nil {
			upper = &t
		}
	}
	if lower == nil && upper == nil {
		return rows
	}

	kept := rows[:0]
	for _, e := range rows {
		day, err := timeutil.DateOf(e.StartISO, s.loc)
		if err != nil {
			continue
		}
		if lower != nil && day.Before(*lower) {
			continue
		}
		if upper != nil && day.After(*upper) {
			continue
		}
		kept = append(kept, e)
	}

	return kept
}

// sortEntries orders rows in place per the named sort policy. Every policy
// breaks ties on id so the order is total and stable across runs.
func sortEntries(rows []entry.Entry, policy string) {
	switch policy {
	case SortIDAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].ID < rows[j].ID
		})
	case SortStartAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].StartISO != rows[j].StartISO {
				return rows[i].StartISO < rows[j].StartISO
			}
			return rows[i].ID < rows[j].ID
		})
	case SortStartDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].StartISO != rows[j].StartISO {
				return rows[i].StartISO > rows[j].StartISO
			}
			return rows[i].ID > rows[j].ID
		})
	default:
		// open_first_newest: not-yet-billed work surfaces above completed
		// work, newest first within each group
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Completed != rows[j].Completed {
				return rows[i].Completed < rows[j].Completed
			}
			return rows[i].ID > rows[j].ID
		})
	}
}

// TotalRoundedMinutes sums the billed quarter-hour minutes across rows
func TotalRoundedMinutes(rows []entry.Entry) int {
	total := 0
	for _, e := range rows {
		total += e.RoundedMinutes
	}
	return total
}
