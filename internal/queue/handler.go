package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/helha/gdpr-app/internal/mailer"
)

// MailHandler decodes queued email jobs and delivers them through a dispatcher.
type MailHandler struct {
	dispatcher mailer.Dispatcher
}

// NewMailHandler wraps the dispatcher doing the actual delivery, usually a mailer.DirectDispatcher.
func NewMailHandler(dispatcher mailer.Dispatcher) *MailHandler {
	return &MailHandler{dispatcher: dispatcher}
}

// Handle decodes msg and dispatches it. Numeric variables stay json.Number so
// templates print them as they were published.
func (h *MailHandler) Handle(ctx context.Context, msg amqp.Delivery) error {
	var job mailer.Job
	dec := json.NewDecoder(bytes.NewReader(msg.Body))
	dec.UseNumber()
	if err := dec.Decode(&job); err != nil {
		return fmt.Errorf("decode email job: %w", err)
	}
	return h.dispatcher.Dispatch(ctx, job)
}
