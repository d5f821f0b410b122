// Package entry defines the time-entry record and its derived values.
//
// An Entry is one row of logged time, identified by its (Date, ID) pair.
// Date and ID are immutable after creation; everything else may be edited.
// Either, both, or neither clock time may be set. A pair where End equals
// Start is a zero-duration entry; a pair where End is earlier than Start
// spans midnight. Neither is an error at this layer.
package entry

import (
	"strings"
	"time"
)

// TicketMaxLen is the upper bound on the ticket label length.
const TicketMaxLen = 255

// Entry is one logged time record.
type Entry struct {
	Date     string     `json:"date"`            // "YYYY-MM-DD", part of identity
	ID       int        `json:"id"`              // unique within Date, caller-assigned
	Start    *TimeOfDay `json:"start,omitempty"` // nil when not yet entered
	End      *TimeOfDay `json:"end,omitempty"`   // nil when not yet entered
	Ticket   string     `json:"ticket,omitempty"`
	Notes    string     `json:"notes,omitempty"`
	Recorded bool       `json:"recorded"`
}

// Complete reports whether both clock times are set.
// Incomplete entries are skipped by batch writes.
func (e *Entry) Complete() bool {
	return e.Start != nil && e.End != nil
}

// Duration returns the logged span, or false if either time is unset.
// End == Start yields zero; End before Start spans midnight.
func (e *Entry) Duration() (time.Duration, bool) {
	if !e.Complete() {
		return 0, false
	}
	minutes := e.End.Minutes() - e.Start.Minutes()
	if minutes < 0 {
		minutes += 24 * 60
	}
	return time.Duration(minutes) * time.Minute, true
}

// TicketIsEmpty reports whether the ticket label is blank.
func (e *Entry) TicketIsEmpty() bool {
	return strings.TrimSpace(e.Ticket) == ""
}

// IsLunch reports whether the entry follows the lunch convention:
// no ticket and notes equal to "lunch" ignoring case. Lunch entries
// count toward neither billable time nor gap time.
func (e *Entry) IsLunch() bool {
	return e.TicketIsEmpty() && strings.EqualFold(e.Notes, "lunch")
}
