package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"lottotrack/internal/core"
)

// Store keeps tickets in process memory. It implements ports.TicketRepository.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Ticket
	now    func() time.Time
}

func New() *Store {
	return &Store{nextID: 1, now: func() time.Time { return time.Now().UTC() }}
}

// NewWithTickets seeds the store, assigning ids in order.
func NewWithTickets(tickets ...core.Ticket) (*Store, error) {
	s := New()
	for _, t := range tickets {
		if _, err := s.AddTicket(context.Background(), t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) AddTicket(_ context.Context, t core.Ticket) (core.Ticket, error) {
	if err := t.Validate(); err != nil {
		return core.Ticket{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	t.CreatedAt = s.now()
	t.ModifiedAt = time.Time{}
	s.items = append(s.items, clone(t))
	return clone(t), nil
}

func (s *Store) UpdateTicket(_ context.Context, t core.Ticket) (core.Ticket, error) {
	if err := t.Validate(); err != nil {
		return core.Ticket{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(t.ID)
	if i < 0 {
		return core.Ticket{}, fmt.Errorf("update ticket %d: %w", t.ID, core.ErrTicketNotFound)
	}
	if s.items[i].Type != t.Type {
		return core.Ticket{}, fmt.Errorf("update ticket %d: %w: stored as %s", t.ID, core.ErrInvalidTicketType, s.items[i].Type)
	}
	t.CreatedAt = s.items[i].CreatedAt
	t.ModifiedAt = s.now()
	s.items[i] = clone(t)
	return clone(t), nil
}

func (s *Store) DeleteTicket(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete ticket %d: %w", id, core.ErrTicketNotFound)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *Store) GetTicket(_ context.Context, id int64) (core.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Ticket{}, fmt.Errorf("get ticket %d: %w", id, core.ErrTicketNotFound)
	}
	return clone(s.items[i]), nil
}

func (s *Store) GetTicketBySerial(_ context.Context, serial string) (core.Ticket, error) {
	serial = strings.TrimSpace(serial)
	s.mu.Lock()
	defer s.mu.Unlock()
	if serial != "" {
		for _, t := range s.items {
			if t.SerialNumber == serial {
				return clone(t), nil
			}
		}
	}
	return core.Ticket{}, fmt.Errorf("get ticket by serial %q: %w", serial, core.ErrTicketNotFound)
}

func (s *Store) ListTickets(_ context.Context) ([]core.Ticket, error) {
	return s.filter(func(core.Ticket) bool { return true }), nil
}

func (s *Store) ListTicketsByType(_ context.Context, tt core.TicketType) ([]core.Ticket, error) {
	return s.filter(func(t core.Ticket) bool { return t.Type == tt }), nil
}

func (s *Store) ListTicketsByStatus(_ context.Context, status core.Status) ([]core.Ticket, error) {
	return s.filter(func(t core.Ticket) bool { return t.Status == status }), nil
}

func (s *Store) ListTicketsByDateRange(_ context.Context, start, end time.Time) ([]core.Ticket, error) {
	return s.filter(func(t core.Ticket) bool {
		return !t.PurchaseDate.Before(start) && !t.PurchaseDate.After(end)
	}), nil
}

// filter returns matching tickets newest purchase first, matching the SQLite store.
func (s *Store) filter(keep func(core.Ticket) bool) []core.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Ticket, 0, len(s.items))
	for _, t := range s.items {
		if keep(t) {
			out = append(out, clone(t))
		}
	}
	slices.SortStableFunc(out, func(a, b core.Ticket) int {
		if c := b.PurchaseDate.Compare(a.PurchaseDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// clone copies the pointer fields so callers cannot mutate stored tickets.
func clone(t core.Ticket) core.Ticket {
	if t.Prize != nil {
		p := *t.Prize
		t.Prize = &p
	}
	if t.ScratchOff != nil {
		d := *t.ScratchOff
		if d.TicketNumber != nil {
			n := *d.TicketNumber
			d.TicketNumber = &n
		}
		t.ScratchOff = &d
	}
	if t.DrawGame != nil {
		d := *t.DrawGame
		t.DrawGame = &d
	}
	return t
}
