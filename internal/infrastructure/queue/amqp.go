package queue

import (
	"context"
	"encoding/json"
	"time"

	"lendingportal-backend/internal/usecase/notify"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher pushes notification send jobs onto a durable RabbitMQ queue.
type Publisher struct {
	ch    *amqp.Channel
	queue string
}

func NewPublisher(conn *amqp.Connection, queue string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

func (p *Publisher) PublishSendJob(ctx context.Context, job notify.SendJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (p *Publisher) Close() error { return p.ch.Close() }

// Consume delivers jobs to fn until the channel closes. Jobs that fail to
// decode are rejected without requeue; handler errors nack with requeue so
// a transient sender outage does not drop deliveries.
func Consume(conn *amqp.Connection, queue string, fn func(context.Context, notify.SendJob) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	for d := range msgs {
		var job notify.SendJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			_ = d.Reject(false)
			continue
		}
		if err := fn(context.Background(), job); err != nil {
			_ = d.Nack(false, true)
			continue
		}
		_ = d.Ack(false)
	}
	return nil
}
