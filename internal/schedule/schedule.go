package schedule

import (
	"time"

	"github.com/adire-living/backend-adire/internal/pricing"
)

// Entry is one dated payment in a plan schedule. Entries are generated once
// at confirmation time and persisted as an immutable snapshot; later rate
// changes never alter an existing schedule.
type Entry struct {
	Seq       int           `json:"seq"`
	DueDate   time.Time     `json:"dueDate"`
	Amount    pricing.Money `json:"amount"`
	PaidToday bool          `json:"paidToday"`
}

// Generate expands a financed quote into dated payments anchored at the
// purchase date. Entry 1 is due immediately: the down payment for
// installment plans, the first monthly payment for rent-to-own. Subsequent
// entries fall on the same day of month, clamped backwards when the target
// month is shorter (Jan 31 -> Feb 29 -> Mar 29).
//
// Because each monthly amount is rounded independently, the sum of entries
// may drift from the quote total by a few currency units. The drift is
// accepted: a stable per-entry amount beats exact reconciliation, so the
// last installment is never adjusted to absorb it.
func Generate(q pricing.Quote, purchaseDate time.Time) []Entry {
	if q.ScheduleMonths <= 0 {
		return nil
	}
	entries := make([]Entry, 0, q.ScheduleMonths)

	first := q.MonthlyPayment
	if q.Mode == pricing.ModeInstallment {
		first = q.DownPayment
	}
	entries = append(entries, Entry{Seq: 1, DueDate: purchaseDate, Amount: first, PaidToday: true})

	due := purchaseDate
	for i := 2; i <= q.ScheduleMonths; i++ {
		due = addMonthClamped(due)
		entries = append(entries, Entry{Seq: i, DueDate: due, Amount: q.MonthlyPayment})
	}
	return entries
}

// addMonthClamped advances one calendar month, clamping the day to the last
// valid day of the target month instead of letting time.AddDate roll over
// into the following month.
func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	firstOfNext := time.Date(year, month+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month+1, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
