package ports

import (
	"context"
	"time"

	"lottotrack/internal/core"
)

// Ports for the ticket store. Listings are ordered newest purchase first.
type (
	TicketReader interface {
		ListTickets(ctx context.Context) ([]core.Ticket, error)
		ListTicketsByType(ctx context.Context, tt core.TicketType) ([]core.Ticket, error)
		// ListTicketsByDateRange returns tickets purchased in [start, end].
		ListTicketsByDateRange(ctx context.Context, start, end time.Time) ([]core.Ticket, error)
		ListTicketsByStatus(ctx context.Context, status core.Status) ([]core.Ticket, error)
		// GetTicket returns core.ErrTicketNotFound for unknown ids.
		GetTicket(ctx context.Context, id int64) (core.Ticket, error)
		GetTicketBySerial(ctx context.Context, serial string) (core.Ticket, error)
	}

	TicketWriter interface {
		// AddTicket stores a new ticket, stamping ID and CreatedAt.
		AddTicket(ctx context.Context, t core.Ticket) (core.Ticket, error)
		// UpdateTicket replaces a stored ticket, stamping ModifiedAt.
		UpdateTicket(ctx context.Context, t core.Ticket) (core.Ticket, error)
		DeleteTicket(ctx context.Context, id int64) error
	}

	TicketRepository interface {
		TicketReader
		TicketWriter
	}

	// EventPublisher announces ticket changes to other processes.
	EventPublisher interface {
		PublishTicketEvent(ctx context.Context, ev core.TicketEvent) error
	}
)
