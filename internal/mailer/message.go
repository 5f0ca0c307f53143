package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	ErrNoRecipients     = errors.New("at least one recipient is required")
	ErrSubjectRequired  = errors.New("subject is required")
	ErrBodyRequired     = errors.New("html or text body is required")
	ErrHeaderInjection  = errors.New("header values must not contain line breaks")
	ErrUnknownTemplate  = errors.New("unknown email template")
	ErrMissingVariable  = errors.New("missing template variable")
	ErrInvalidRecipient = errors.New("invalid recipient address")
)

// Message is a fully rendered email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ValidateEmail checks an address with the RFC 5322 parser.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecipient, email)
	}
	return nil
}

// Validate rejects messages that cannot be delivered safely.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range m.To {
		if strings.ContainsAny(to, "\r\n") {
			return ErrHeaderInjection
		}
		if err := ValidateEmail(to); err != nil {
			return err
		}
	}
	if strings.ContainsAny(m.From, "\r\n") || strings.ContainsAny(m.Subject, "\r\n") {
		return ErrHeaderInjection
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrSubjectRequired
	}
	if m.HTML == "" && m.Text == "" {
		return ErrBodyRequired
	}
	return nil
}
