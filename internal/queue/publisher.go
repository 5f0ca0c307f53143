package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/helha/gdpr-app/internal/mailer"
)

const confirmTimeout = 5 * time.Second

var ErrPublishNacked = errors.New("broker did not acknowledge the message")

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher queues email jobs on RabbitMQ in confirm mode. It implements mailer.Dispatcher.
type Publisher struct {
	mu         sync.Mutex
	ch         publishChannel
	confirms   <-chan amqp.Confirmation
	exchange   string
	routingKey string
}

// NewPublisher opens a confirm-mode channel on conn.
func NewPublisher(conn *amqp.Connection, exchange, routingKey string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("amqp connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	return &Publisher{
		ch:         ch,
		confirms:   ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// Dispatch publishes job as a persistent JSON message and waits for the broker confirm.
func (p *Publisher) Dispatch(ctx context.Context, job mailer.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode email job: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Type:         job.Template,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish email job: %w", err)
	}

	select {
	case confirm, ok := <-p.confirms:
		if !ok || !confirm.Ack {
			return ErrPublishNacked
		}
		return nil
	case <-time.After(confirmTimeout):
		return errors.New("publish confirm timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the channel.
func (p *Publisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}
