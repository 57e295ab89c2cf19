package entry

// Entry represents a single billable work record for a client.
// An entry with an empty EndISO is an open session: its duration
// fields stay at their zero defaults until the session is stopped.
type Entry struct {
	ID        int64  `db:"id" json:"id"`
	Client    string `db:"client" json:"client"`
	ClientKey string `db:"client_key" json:"client_key"`
	StartISO  string `db:"start_iso" json:"start_iso"`
	EndISO    string `db:"end_iso" json:"end_iso"`

	// Time accounting. Minutes is the raw elapsed whole-minute count,
	// RoundedMinutes is Minutes rounded to the nearest quarter hour, and
	// RoundedHours is RoundedMinutes/60 formatted to two decimal places.
	// ElapsedMinutes mirrors Minutes for compatibility with live databases
	// that predate the minutes column; it is written but never read.
	Minutes        int    `db:"minutes" json:"minutes"`
	RoundedMinutes int    `db:"rounded_minutes" json:"rounded_minutes"`
	RoundedHours   string `db:"rounded_hours" json:"rounded_hours"`
	ElapsedMinutes int    `db:"elapsed_minutes" json:"elapsed_minutes"`

	Note          string `db:"note" json:"note"`
	Completed     int    `db:"completed" json:"completed"`
	InvoiceNumber string `db:"invoice_number" json:"invoice_number"`
	CreatedAt     string `db:"created_at" json:"created_at"`
}

// IsOpen reports whether the entry is an open session (no end timestamp)
func (e Entry) IsOpen() bool {
	return e.EndISO == ""
}

// IsDone reports whether the entry is marked complete in the billing workflow.
// This is independent of whether the session is open or closed.
func (e Entry) IsDone() bool {
	return e.Completed != 0
}

// AppendNote appends text to the entry's note, separated by a newline when a
// note already exists. Existing note text is never replaced.
func (e *Entry) AppendNote(text string) {
	if text == "" {
		return
	}
	if e.Note == "" {
		e.Note = text
		return
	}
	e.Note = e.Note + "\n" + text
}
