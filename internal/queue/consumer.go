package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const handleTimeout = 30 * time.Second

// Handler processes one delivery. Returning an error nacks the message.
type Handler interface {
	Handle(ctx context.Context, msg amqp.Delivery) error
}

// Consumer drains a queue with a bounded number of concurrent handlers.
type Consumer struct {
	ch          *amqp.Channel
	queue       string
	sem         chan struct{}
	wg          sync.WaitGroup
	consumerTag string
	log         zerolog.Logger
}

// NewConsumer opens a channel with a prefetch equal to workers.
func NewConsumer(conn *amqp.Connection, queue string, workers int, log zerolog.Logger) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("amqp connection is nil")
	}
	if workers <= 0 {
		workers = 1
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Qos(workers, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	return &Consumer{
		ch:          ch,
		queue:       queue,
		sem:         make(chan struct{}, workers),
		consumerTag: "mail-worker-" + uuid.NewString(),
		log:         log,
	}, nil
}

// Consume blocks until ctx is cancelled or the delivery channel closes, then waits for in-flight handlers.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.ch.Consume(c.queue, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	go func() {
		<-ctx.Done()
		_ = c.ch.Cancel(c.consumerTag, false)
	}()

	for msg := range msgs {
		c.sem <- struct{}{}
		c.wg.Add(1)

		go func(m amqp.Delivery) {
			defer c.wg.Done()
			defer func() { <-c.sem }()

			msgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
			defer cancel()

			settle(c.log, m, m.Redelivered, handler.Handle(msgCtx, m))
		}(msg)
	}

	c.wg.Wait()
	return nil
}

// Close waits for in-flight handlers, bounded by ctx, and closes the channel.
func (c *Consumer) Close(ctx context.Context) error {
	_ = c.ch.Cancel(c.consumerTag, false)

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return c.ch.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// settle acks successful deliveries. Failures are requeued once, then dropped.
func settle(log zerolog.Logger, ack acknowledger, redelivered bool, err error) {
	if err == nil {
		_ = ack.Ack(false)
		return
	}
	log.Error().Err(err).Bool("redelivered", redelivered).Msg("email job failed")
	_ = ack.Nack(false, !redelivered)
}
