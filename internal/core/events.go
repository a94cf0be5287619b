package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventTicketCreated       EventType = "ticket.created"
	EventTicketUpdated       EventType = "ticket.updated"
	EventTicketStatusChanged EventType = "ticket.status_changed"
	EventTicketDeleted       EventType = "ticket.deleted"
)

type EventType string

// TicketEvent is the message published after a ticket changes.
type TicketEvent struct {
	EventID    string     `json:"event_id"`
	Type       EventType  `json:"type"`
	TicketID   int64      `json:"ticket_id"`
	TicketType TicketType `json:"ticket_type,omitempty"`
	Status     Status     `json:"status,omitempty"`
	PrizeCents *int64     `json:"prize_cents,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewTicketEvent builds an event describing t's current state.
func NewTicketEvent(typ EventType, t Ticket) TicketEvent {
	ev := TicketEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		TicketID:   t.ID,
		TicketType: t.Type,
		Status:     t.Status,
		OccurredAt: time.Now().UTC(),
	}
	if t.Prize != nil {
		c := t.Prize.Cents
		ev.PrizeCents = &c
	}
	return ev
}

func (e TicketEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TicketEventFromJSON(data []byte) (TicketEvent, error) {
	var ev TicketEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return TicketEvent{}, fmt.Errorf("unmarshal ticket event: %w", err)
	}
	if ev.EventID == "" || ev.Type == "" {
		return TicketEvent{}, fmt.Errorf("unmarshal ticket event: missing event_id or type")
	}
	return ev, nil
}
