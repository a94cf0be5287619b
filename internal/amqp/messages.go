package amqp

import (
	"github.com/rabbitmq/amqp091-go"

	"lottotrack/internal/core"
)

// publishing wraps ev as a persistent JSON message. The event id doubles as
// the AMQP message id so consumers can deduplicate redeliveries.
func publishing(ev core.TicketEvent) (amqp091.Publishing, error) {
	body, err := ev.ToJSON()
	if err != nil {
		return amqp091.Publishing{}, err
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    ev.EventID,
		Type:         string(ev.Type),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}, nil
}
