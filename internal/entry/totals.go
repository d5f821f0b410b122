package entry

import "math"

// Totals summarizes one day's records for display and reporting.
type Totals struct {
	// BillableHours is the sum of ticketed durations, in hours,
	// rounded to two decimals away from zero.
	BillableHours float64
	// GapMinutes is the sum of unticketed, non-lunch durations, in minutes.
	GapMinutes float64
}

// ComputeTotals folds a day's entries into billable and gap totals.
// Entries missing either time are ignored; lunch entries count toward
// neither bucket.
func ComputeTotals(entries []Entry) Totals {
	var billable, gap float64
	for i := range entries {
		d, ok := entries[i].Duration()
		if !ok {
			continue
		}
		switch {
		case !entries[i].TicketIsEmpty():
			billable += d.Hours()
		case entries[i].IsLunch():
			// excluded from both buckets
		default:
			gap += d.Minutes()
		}
	}
	return Totals{
		BillableHours: math.Round(billable*100) / 100,
		GapMinutes:    gap,
	}
}
