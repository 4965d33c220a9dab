package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends participation events to a durable queue.  Each call dials
// its own connection.
type Publisher struct {
	url   string
	queue string
}

func NewPublisher(url, queue string) *Publisher {
	return &Publisher{url: url, queue: queue}
}

// PublishParticipation marshals ev and publishes it as a persistent message.
func (p *Publisher) PublishParticipation(ctx context.Context, ev ParticipationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declareQueue(ch, p.queue); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Type:         "session." + ev.Action,
			Body:         body,
		},
	)
}

// NopPublisher drops events; used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishParticipation(context.Context, ParticipationEvent) error { return nil }

func declareQueue(ch *amqp.Channel, name string) error {
	if _, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}
