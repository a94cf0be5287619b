// Package stats reduces ticket collections into spend and win summaries.
//
// Every function here is pure: it works on the slice it is given and never
// touches storage, so results always reflect the tickets passed in.
package stats

import (
	"slices"
	"time"

	"lottotrack/internal/core"
)

// TicketStatistics is a derived summary; it is never persisted.
type TicketStatistics struct {
	TotalTickets   int
	WinningTickets int
	LosingTickets  int
	PendingTickets int
	TotalSpent     core.Money
	TotalWon       core.Money
}

// PeriodStatistics covers tickets purchased from StartDate through the end of EndDate.
type PeriodStatistics struct {
	StartDate  time.Time
	EndDate    time.Time
	Statistics TicketStatistics
}

type GameStatistics struct {
	GameName   string
	TicketType core.TicketType
	Statistics TicketStatistics
}

// NetProfit is TotalWon minus TotalSpent.
func (s TicketStatistics) NetProfit() core.Money {
	return s.TotalWon.Sub(s.TotalSpent)
}

// ResolvedTickets counts tickets whose outcome is known.
func (s TicketStatistics) ResolvedTickets() int {
	return s.TotalTickets - s.PendingTickets
}

// WinRate is the percentage (0-100) of resolved tickets that won, or 0
// when nothing is resolved yet.
func (s TicketStatistics) WinRate() float64 {
	resolved := s.ResolvedTickets()
	if resolved <= 0 {
		return 0
	}
	return float64(s.WinningTickets) / float64(resolved) * 100
}

func Calculate(tickets []core.Ticket) TicketStatistics {
	var s TicketStatistics
	s.TotalTickets = len(tickets)
	for _, t := range tickets {
		switch t.Status {
		case core.Winner, core.Claimed:
			s.WinningTickets++
		case core.Loser:
			s.LosingTickets++
		case core.Pending:
			s.PendingTickets++
		}
		s.TotalSpent = s.TotalSpent.Add(t.Price)
		if t.Prize != nil {
			s.TotalWon = s.TotalWon.Add(*t.Prize)
		}
	}
	return s
}

// ByType aggregates only the tickets of the given subtype.
func ByType(tickets []core.Ticket, tt core.TicketType) TicketStatistics {
	return Calculate(FilterByType(tickets, tt))
}

func FilterByType(tickets []core.Ticket, tt core.TicketType) []core.Ticket {
	out := make([]core.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}

// ByGame groups scratch-offs by game name and draw games by game type (or
// custom name for Other), most-played first. Games with equal counts keep
// scratch-offs ahead of draw games, each in order of first appearance.
func ByGame(tickets []core.Ticket) []GameStatistics {
	type key struct {
		tt   core.TicketType
		name string
	}
	var order []key
	groups := make(map[key][]core.Ticket)
	for _, tt := range core.TicketTypes() {
		for _, t := range tickets {
			if t.Type != tt {
				continue
			}
			k := key{tt: tt, name: t.GameName()}
			if _, seen := groups[k]; !seen {
				order = append(order, k)
			}
			groups[k] = append(groups[k], t)
		}
	}

	out := make([]GameStatistics, 0, len(order))
	for _, k := range order {
		out = append(out, GameStatistics{
			GameName:   k.name,
			TicketType: k.tt,
			Statistics: Calculate(groups[k]),
		})
	}
	slices.SortStableFunc(out, func(a, b GameStatistics) int {
		return b.Statistics.TotalTickets - a.Statistics.TotalTickets
	})
	return out
}

// Period aggregates tickets purchased in [start, end], both ends inclusive.
func Period(tickets []core.Ticket, start, end time.Time) PeriodStatistics {
	var in []core.Ticket
	for _, t := range tickets {
		if !t.PurchaseDate.Before(start) && !t.PurchaseDate.After(end) {
			in = append(in, t)
		}
	}
	return PeriodStatistics{StartDate: start, EndDate: end, Statistics: Calculate(in)}
}
