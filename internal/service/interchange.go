package service

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"tally/internal/entry"
	"tally/internal/roster"
	"tally/internal/storage"
	"tally/internal/timeutil"
)

// csvHeader is the fixed export column order. Import accepts these names and
// their spreadsheet-styled variants; export always writes exactly this row.
var csvHeader = []string{
	"id", "client", "client_key", "start_iso", "end_iso",
	"minutes", "rounded_minutes", "rounded_hours",
	"note", "completed", "invoice_number", "created_at",
}

// headerAliases maps the column names import recognizes onto canonical
// names. Rows exported by this program round-trip; so do spreadsheets that
// re-titled the columns. The duration columns have no aliases because import
// rederives durations from the timestamps and never reads them.
var headerAliases = map[string]string{
	"id":             "id",
	"client":         "client",
	"client_key":     "client_key",
	"client key":     "client_key",
	"start_iso":      "start_iso",
	"start iso":      "start_iso",
	"start":          "start_iso",
	"end_iso":        "end_iso",
	"end iso":        "end_iso",
	"end":            "end_iso",
	"note":           "note",
	"notes":          "note",
	"completed":      "completed",
	"invoice_number": "invoice_number",
	"invoice number": "invoice_number",
	"invoice":        "invoice_number",
	"created_at":     "created_at",
	"created at":     "created_at",
}

// ImportResult summarizes one CSV import pass
type ImportResult struct {
	Imported int
	Skipped  int
}

// InterchangeService moves entries across the CSV boundary. Export is a
// faithful dump of a query result; import is deliberately tolerant, because
// the files it reads have usually been through a spreadsheet.
type InterchangeService struct {
	store  *storage.Store
	roster *roster.Roster
	query  *QueryService
	loc    *time.Location

	now func() time.Time
}

// NewInterchangeService creates an interchange service
func NewInterchangeService(store *storage.Store, r *roster.Roster, query *QueryService, loc *time.Location) *InterchangeService {
	return &InterchangeService{
		store:  store,
		roster: r,
		query:  query,
		loc:    loc,
		now:    func() time.Time { return nowIn(loc) },
	}
}

// ExportCSV writes the entries matching p to w as CSV, header first, in the
// query's sort order. Stored values are written verbatim; nothing is
// re-derived on the way out.
func (s *InterchangeService) ExportCSV(ctx context.Context, w io.Writer, p QueryParams) (int, error) {
	rows, err := s.query.List(ctx, p)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, e := range rows {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Client,
			e.ClientKey,
			e.StartISO,
			e.EndISO,
			strconv.Itoa(e.Minutes),
			strconv.Itoa(e.RoundedMinutes),
			e.RoundedHours,
			e.Note,
			strconv.Itoa(e.Completed),
			e.InvoiceNumber,
			e.CreatedAt,
		}
		if err := cw.Write(record); err != nil {
			return 0, err
		}
	}
	cw.Flush()

	return len(rows), cw.Error()
}

// ImportCSV reads entries from r and inserts each as a new entry; ids in the
// file are ignored so an import never overwrites existing rows. Rows without
// a client name are skipped and counted. A missing start timestamp defaults
// to the current instant. Duration columns in the file are never trusted:
// when both timestamps parse the three duration fields are rederived from
// them, otherwise they stay zero, leaving the row present but unbilled
// rather than rejecting the file.
func (s *InterchangeService) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return ImportResult{}, nil
	}
	if err != nil {
		return ImportResult{}, err
	}

	columns := map[string]int{}
	for i, name := range header {
		canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, dup := columns[canonical]; !dup {
			columns[canonical] = i
		}
	}

	var result ImportResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, err
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		client := field("client")
		if client == "" {
			result.Skipped++
			continue
		}

		startISO := field("start_iso")
		if startISO == "" {
			startISO = timeutil.FormatISO(s.now())
		}

		clientKey := field("client_key")
		if clientKey == "" {
			clientKey = deriveKey("", client, s.roster)
		}

		createdAt := field("created_at")
		if createdAt == "" {
			createdAt = timeutil.FormatISO(s.now())
		}

		e := &entry.Entry{
			Client:        client,
			ClientKey:     clientKey,
			StartISO:      startISO,
			EndISO:        field("end_iso"),
			RoundedHours:  "0.00",
			Note:          field("note"),
			Completed:     normalizeCompleted(lenientInt(field("completed"))),
			InvoiceNumber: field("invoice_number"),
			CreatedAt:     createdAt,
		}
		recomputeDuration(e)

		if err := s.store.Create(ctx, e); err != nil {
			return result, err
		}
		result.Imported++
	}

	return result, nil
}

// lenientInt parses an integer, tolerating float renderings ("1.0") that
// spreadsheets produce; fractional values round to the nearest integer.
// Anything unparseable is zero.
func lenientInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(math.Round(f))
	}
	return 0
}
