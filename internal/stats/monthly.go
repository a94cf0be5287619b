package stats

import (
	"time"

	"lottotrack/internal/core"
)

// Window is one calendar month. Start is midnight on the first day, End is
// midnight on the last day, and next is the first instant of the following
// month, which bounds membership.
type Window struct {
	Start time.Time
	End   time.Time
	next  time.Time
}

// Contains reports whether ts falls anywhere within the month, including
// the whole of its last day.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.next)
}

// Until is the last instant of the window.
func (w Window) Until() time.Time {
	return w.next.Add(-time.Nanosecond)
}

// MonthWindows returns the trailing n calendar months ending with the month
// of now, oldest first, in now's location.
func MonthWindows(now time.Time, n int) []Window {
	if n <= 0 {
		return nil
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]Window, n)
	for i := range n {
		start := first.AddDate(0, -(n - 1 - i), 0)
		next := start.AddDate(0, 1, 0)
		out[i] = Window{Start: start, End: next.AddDate(0, 0, -1), next: next}
	}
	return out
}

// Monthly buckets tickets into the trailing n months ending with now's
// month. Tickets outside every window are ignored.
func Monthly(tickets []core.Ticket, now time.Time, n int) []PeriodStatistics {
	windows := MonthWindows(now, n)
	buckets := make([][]core.Ticket, len(windows))
	for _, t := range tickets {
		for i, w := range windows {
			if w.Contains(t.PurchaseDate) {
				buckets[i] = append(buckets[i], t)
				break
			}
		}
	}

	out := make([]PeriodStatistics, len(windows))
	for i, w := range windows {
		out[i] = PeriodStatistics{
			StartDate:  w.Start,
			EndDate:    w.End,
			Statistics: Calculate(buckets[i]),
		}
	}
	return out
}
