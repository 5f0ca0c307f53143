package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// Job is a templated email waiting to be rendered and sent. It is the payload of queued jobs.
type Job struct {
	To        []string       `json:"to"`
	Subject   string         `json:"subject"`
	Template  string         `json:"template"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Dispatcher hands jobs over for delivery, either inline or through a queue.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// DirectDispatcher renders and sends jobs synchronously and records delivery statistics.
type DirectDispatcher struct {
	renderer *Renderer
	sender   Sender
	stats    Stats
	from     string
	log      zerolog.Logger
}

// NewDirectDispatcher wires a renderer, sender and statistics recorder.
func NewDirectDispatcher(renderer *Renderer, sender Sender, stats Stats, from string, log zerolog.Logger) *DirectDispatcher {
	return &DirectDispatcher{renderer: renderer, sender: sender, stats: stats, from: from, log: log}
}

// Dispatch renders job and sends it.
func (d *DirectDispatcher) Dispatch(ctx context.Context, job Job) error {
	htmlBody, textBody, err := d.renderer.Render(job.Template, job.Variables)
	if err != nil {
		d.record(ctx, false)
		return err
	}

	err = d.sender.Send(ctx, Message{
		From:    d.from,
		To:      job.To,
		Subject: job.Subject,
		HTML:    htmlBody,
		Text:    textBody,
	})
	d.record(ctx, err == nil)
	if err != nil {
		return err
	}

	d.log.Debug().Strs("to", job.To).Str("template", job.Template).Msg("email sent")
	return nil
}

func (d *DirectDispatcher) record(ctx context.Context, sent bool) {
	if d.stats == nil {
		return
	}
	var err error
	if sent {
		err = d.stats.RecordSent(ctx)
	} else {
		err = d.stats.RecordFailed(ctx)
	}
	if err != nil {
		d.log.Warn().Err(err).Msg("record email statistics")
	}
}
