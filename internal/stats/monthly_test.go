package stats

import (
	"testing"
	"time"

	"lottotrack/internal/core"
)

func TestMonthWindows(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	ws := MonthWindows(now, 3)
	if len(ws) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(ws))
	}
	wantStarts := []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	wantEnds := []time.Time{
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, w := range ws {
		if !w.Start.Equal(wantStarts[i]) || !w.End.Equal(wantEnds[i]) {
			t.Fatalf("window %d: got %v..%v", i, w.Start, w.End)
		}
	}
	if MonthWindows(now, 0) != nil {
		t.Fatalf("expected no windows for n=0")
	}
}

func TestMonthWindowsAcrossYear(t *testing.T) {
	now := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
	ws := MonthWindows(now, 2)
	if ws[0].Start != time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected first window start %v", ws[0].Start)
	}
	if ws[1].End != time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected last window end %v", ws[1].End)
	}
}

func TestMonthlyTwoMonths(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	tickets := []core.Ticket{
		ticket(core.ScratchOff, "A", 100, core.Loser, nil, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)),
		ticket(core.ScratchOff, "A", 200, core.Loser, nil, time.Date(2025, 4, 30, 22, 30, 0, 0, time.UTC)),
		ticket(core.ScratchOff, "A", 300, core.Winner, cents(1000), time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)),
		// outside the window
		ticket(core.ScratchOff, "A", 999, core.Loser, nil, time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)),
	}

	got := Monthly(tickets, now, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(got))
	}
	if !got[0].StartDate.Before(got[1].StartDate) {
		t.Fatalf("periods not ascending: %v, %v", got[0].StartDate, got[1].StartDate)
	}

	april, may := got[0].Statistics, got[1].Statistics
	if april.TotalTickets != 2 || april.TotalSpent.Cents != 300 {
		t.Fatalf("unexpected april: %+v", april)
	}
	if may.TotalTickets != 1 || may.TotalWon.Cents != 1000 {
		t.Fatalf("unexpected may: %+v", may)
	}
}

func TestWindowContainsLastDay(t *testing.T) {
	w := MonthWindows(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), 1)[0]
	if !w.Contains(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("leap day evening should be inside february")
	}
	if w.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("march 1 should be outside february")
	}
	if !w.Until().Before(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("until must precede next month")
	}
}
