package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lottotrack/internal/core"
	"lottotrack/internal/ports"
)

// publishBudget bounds how long a mutation waits on the event broker,
// including the publisher's own retries.
const publishBudget = 500 * time.Millisecond

// TicketService is the single entry point for ticket mutations. It validates
// input, persists through the repository and announces changes.
type TicketService struct {
	repo          ports.TicketRepository
	events        ports.EventPublisher
	publishBudget time.Duration
}

// NewTicketService builds the service. events may be nil, in which case
// changes are only stored.
func NewTicketService(repo ports.TicketRepository, events ports.EventPublisher) *TicketService {
	return &TicketService{
		repo:          repo,
		events:        events,
		publishBudget: publishBudget,
	}
}

// AddTicket records a new purchase. An empty status defaults to Pending and
// a draw game with no draw count defaults to one draw.
func (s *TicketService) AddTicket(ctx context.Context, t core.Ticket) (core.Ticket, error) {
	normalize(&t)
	if err := t.Validate(); err != nil {
		return core.Ticket{}, err
	}

	saved, err := s.repo.AddTicket(ctx, t)
	if err != nil {
		return core.Ticket{}, fmt.Errorf("save ticket: %w", err)
	}

	s.publish(ctx, core.NewTicketEvent(core.EventTicketCreated, saved))
	return saved, nil
}

// UpdateTicket edits the descriptive fields of a ticket. Status and prize are
// left as stored; use the Mark* methods to change them.
func (s *TicketService) UpdateTicket(ctx context.Context, t core.Ticket) (core.Ticket, error) {
	current, err := s.repo.GetTicket(ctx, t.ID)
	if err != nil {
		return core.Ticket{}, err
	}
	t.Status = current.Status
	t.Prize = current.Prize
	normalize(&t)
	if err := t.Validate(); err != nil {
		return core.Ticket{}, err
	}

	saved, err := s.repo.UpdateTicket(ctx, t)
	if err != nil {
		return core.Ticket{}, fmt.Errorf("update ticket: %w", err)
	}

	s.publish(ctx, core.NewTicketEvent(core.EventTicketUpdated, saved))
	return saved, nil
}

// MarkWinner sets the ticket to Winner with the given prize.
func (s *TicketService) MarkWinner(ctx context.Context, id int64, prize core.Money) (core.Ticket, error) {
	return s.changeStatus(ctx, id, func(t *core.Ticket) error { return t.MarkWinner(prize) })
}

// MarkLoser sets the ticket to Loser and clears any prize.
func (s *TicketService) MarkLoser(ctx context.Context, id int64) (core.Ticket, error) {
	return s.changeStatus(ctx, id, (*core.Ticket).MarkLoser)
}

// MarkClaimed moves a Winner to Claimed.
func (s *TicketService) MarkClaimed(ctx context.Context, id int64) (core.Ticket, error) {
	return s.changeStatus(ctx, id, (*core.Ticket).MarkClaimed)
}

// SetStatus dispatches to the Mark* method for status. prize is only used for Winner.
func (s *TicketService) SetStatus(ctx context.Context, id int64, status core.Status, prize *core.Money) (core.Ticket, error) {
	switch status {
	case core.Winner:
		if prize == nil {
			return core.Ticket{}, fmt.Errorf("%w: a winning ticket needs a prize amount", core.ErrInvalidAmount)
		}
		return s.MarkWinner(ctx, id, *prize)
	case core.Loser:
		return s.MarkLoser(ctx, id)
	case core.Claimed:
		return s.MarkClaimed(ctx, id)
	case core.Pending:
		return core.Ticket{}, fmt.Errorf("%w: tickets cannot return to pending", core.ErrInvalidTransition)
	}
	return core.Ticket{}, fmt.Errorf("%w: %q", core.ErrInvalidStatus, status)
}

func (s *TicketService) changeStatus(ctx context.Context, id int64, apply func(*core.Ticket) error) (core.Ticket, error) {
	t, err := s.repo.GetTicket(ctx, id)
	if err != nil {
		return core.Ticket{}, err
	}
	previous := t.Status
	if err := apply(&t); err != nil {
		return core.Ticket{}, err
	}

	saved, err := s.repo.UpdateTicket(ctx, t)
	if err != nil {
		return core.Ticket{}, fmt.Errorf("update ticket status: %w", err)
	}

	slog.InfoContext(ctx, "Ticket status changed",
		"id", id,
		"from", previous,
		"to", saved.Status)

	s.publish(ctx, core.NewTicketEvent(core.EventTicketStatusChanged, saved))
	return saved, nil
}

// DeleteTicket removes a ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	t, err := s.repo.GetTicket(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTicket(ctx, id); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}

	s.publish(ctx, core.NewTicketEvent(core.EventTicketDeleted, t))
	return nil
}

func (s *TicketService) GetTicket(ctx context.Context, id int64) (core.Ticket, error) {
	return s.repo.GetTicket(ctx, id)
}

// FindBySerial looks a ticket up by the serial printed (or barcoded) on it.
func (s *TicketService) FindBySerial(ctx context.Context, serial string) (core.Ticket, error) {
	if strings.TrimSpace(serial) == "" {
		return core.Ticket{}, fmt.Errorf("find by serial: %w", core.ErrTicketNotFound)
	}
	return s.repo.GetTicketBySerial(ctx, serial)
}

// publish never fails the caller: the change is already stored.
func (s *TicketService) publish(ctx context.Context, ev core.TicketEvent) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping ticket event", "type", ev.Type)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishBudget)
	defer cancel()
	if err := s.events.PublishTicketEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ticket event",
			"type", ev.Type,
			"ticket_id", ev.TicketID,
			"error", err)
	}
}

func normalize(t *core.Ticket) {
	if t.Status == "" {
		t.Status = core.Pending
	}
	t.SerialNumber = strings.TrimSpace(t.SerialNumber)
	if t.DrawGame != nil && t.DrawGame.NumberOfDraws == 0 {
		t.DrawGame.NumberOfDraws = 1
	}
}
