package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"lottotrack/internal/core"
	"lottotrack/internal/ports"
	"lottotrack/internal/stats"
)

const (
	DefaultStatsMonths = 12
	recentTickets      = 5
)

var openEnd = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Dashboard is the landing summary: overall totals plus the latest purchases.
type Dashboard struct {
	Overall stats.TicketStatistics
	Recent  []core.Ticket
}

// StatisticsService computes aggregates on demand from the repository.
// Nothing is cached; every call reflects the current ticket set.
type StatisticsService struct {
	tickets ports.TicketReader
	months  int
	now     func() time.Time
}

func NewStatisticsService(tickets ports.TicketReader, months int) *StatisticsService {
	if months <= 0 {
		months = DefaultStatsMonths
	}
	return &StatisticsService{
		tickets: tickets,
		months:  months,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *StatisticsService) WithClock(now func() time.Time) *StatisticsService {
	s.now = now
	return s
}

func (s *StatisticsService) Overall(ctx context.Context) (stats.TicketStatistics, error) {
	all, err := s.tickets.ListTickets(ctx)
	if err != nil {
		return stats.TicketStatistics{}, fmt.Errorf("list tickets: %w", err)
	}
	return stats.Calculate(all), nil
}

func (s *StatisticsService) ByType(ctx context.Context, tt core.TicketType) (stats.TicketStatistics, error) {
	if !tt.IsValid() {
		return stats.TicketStatistics{}, fmt.Errorf("%w: %q", core.ErrInvalidTicketType, tt)
	}
	list, err := s.tickets.ListTicketsByType(ctx, tt)
	if err != nil {
		return stats.TicketStatistics{}, fmt.Errorf("list %s tickets: %w", tt, err)
	}
	return stats.Calculate(list), nil
}

// ByGame loads both subtypes concurrently and groups them by game name,
// most played first.
func (s *StatisticsService) ByGame(ctx context.Context) ([]stats.GameStatistics, error) {
	var scratch, draw []core.Ticket

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scratch, err = s.tickets.ListTicketsByType(gctx, core.ScratchOff)
		return err
	})
	g.Go(func() error {
		var err error
		draw, err = s.tickets.ListTicketsByType(gctx, core.DrawGame)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load tickets by type: %w", err)
	}

	return stats.ByGame(append(scratch, draw...)), nil
}

// Monthly returns one bucket per calendar month ending with the current one,
// oldest first. months <= 0 uses the configured default.
func (s *StatisticsService) Monthly(ctx context.Context, months int) ([]stats.PeriodStatistics, error) {
	if months <= 0 {
		months = s.months
	}
	now := s.now()
	windows := stats.MonthWindows(now, months)
	list, err := s.tickets.ListTicketsByDateRange(ctx, windows[0].Start, windows[len(windows)-1].Until())
	if err != nil {
		return nil, fmt.Errorf("list tickets for monthly stats: %w", err)
	}
	return stats.Monthly(list, now, months), nil
}

// ByPeriod aggregates tickets purchased in [start, end], both ends inclusive.
func (s *StatisticsService) ByPeriod(ctx context.Context, start, end time.Time) (stats.PeriodStatistics, error) {
	if end.Before(start) {
		return stats.PeriodStatistics{}, fmt.Errorf("%w: %s < %s",
			core.ErrInvalidPeriod, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	list, err := s.tickets.ListTicketsByDateRange(ctx, start, end)
	if err != nil {
		return stats.PeriodStatistics{}, fmt.Errorf("list tickets for period: %w", err)
	}
	return stats.Period(list, start, end), nil
}

func (s *StatisticsService) Dashboard(ctx context.Context) (Dashboard, error) {
	all, err := s.tickets.ListTickets(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list tickets: %w", err)
	}
	recent := all
	if len(recent) > recentTickets {
		recent = recent[:recentTickets]
	}
	return Dashboard{
		Overall: stats.Calculate(all),
		Recent:  recent,
	}, nil
}

// ListTickets returns tickets matching f, newest purchase first.
func (s *StatisticsService) ListTickets(ctx context.Context, f TicketFilter) ([]core.Ticket, error) {
	var (
		list []core.Ticket
		err  error
	)
	switch {
	case f.HasRange():
		from, to := f.From, f.To
		if to.IsZero() {
			to = openEnd
		}
		list, err = s.tickets.ListTicketsByDateRange(ctx, from, to)
	case f.Type != "":
		list, err = s.tickets.ListTicketsByType(ctx, f.Type)
	case f.Status != "":
		list, err = s.tickets.ListTicketsByStatus(ctx, f.Status)
	default:
		list, err = s.tickets.ListTickets(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	out := list[:0]
	for _, t := range list {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// TicketFilter narrows a ticket listing. Zero fields match everything.
type TicketFilter struct {
	Type   core.TicketType
	Status core.Status
	From   time.Time
	To     time.Time
}

func (f TicketFilter) HasRange() bool {
	return !f.From.IsZero() || !f.To.IsZero()
}

func (f TicketFilter) Matches(t core.Ticket) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && t.PurchaseDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.PurchaseDate.After(f.To) {
		return false
	}
	return true
}
