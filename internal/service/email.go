package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/mailer"
	"github.com/helha/gdpr-app/internal/repository"
)

// Notifier sends the transactional emails triggered by account and request events.
type Notifier interface {
	Welcome(ctx context.Context, user *entity.User, password string) error
	PasswordReset(ctx context.Context, user *entity.User, token string, ttl time.Duration) error
	AccountDeactivated(ctx context.Context, user *entity.User) error
	RequestFiled(ctx context.Context, req *entity.GDPRRequest) error
	RequestStatusChanged(ctx context.Context, req *entity.GDPRRequest, oldStatus string) error
}

// EmailConfig carries the branding and recipients used in outgoing mail.
type EmailConfig struct {
	AppName     string
	AppURL      string
	AdminEmails []string
}

// EmailService builds templated jobs and hands them to a dispatcher.
type EmailService struct {
	dispatcher mailer.Dispatcher
	stats      mailer.Stats
	users      repository.UsersRepository
	cfg        EmailConfig
	now        func() time.Time
	log        zerolog.Logger
}

// NewEmailService constructs an EmailService.
func NewEmailService(dispatcher mailer.Dispatcher, stats mailer.Stats, users repository.UsersRepository, cfg EmailConfig, log zerolog.Logger) *EmailService {
	return &EmailService{
		dispatcher: dispatcher,
		stats:      stats,
		users:      users,
		cfg:        cfg,
		now:        time.Now,
		log:        log.With().Str("component", "email").Logger(),
	}
}

var _ Notifier = (*EmailService)(nil)

func (s *EmailService) subject(format string, args ...any) string {
	return fmt.Sprintf(format, args...) + " - " + s.cfg.AppName
}

func (s *EmailService) send(ctx context.Context, to []string, subject, template string, vars map[string]any) error {
	if err := s.dispatcher.Dispatch(ctx, mailer.Job{To: to, Subject: subject, Template: template, Variables: vars}); err != nil {
		return fmt.Errorf("send %s: %w", template, err)
	}
	return nil
}

// Welcome greets a new account. A non-empty password is included for generated credentials.
func (s *EmailService) Welcome(ctx context.Context, user *entity.User, password string) error {
	vars := map[string]any{
		"UserName": user.FullName(),
		"Email":    user.Email,
		"LoginURL": s.cfg.AppURL + "/login",
	}
	if password != "" {
		vars["Password"] = password
	}
	return s.send(ctx, []string{user.Email}, fmt.Sprintf("Welcome to %s!", s.cfg.AppName), mailer.TemplateWelcome, vars)
}

// PasswordReset mails the single-use reset link.
func (s *EmailService) PasswordReset(ctx context.Context, user *entity.User, token string, ttl time.Duration) error {
	hours := int(ttl.Hours())
	if hours < 1 {
		hours = 1
	}
	return s.send(ctx, []string{user.Email}, s.subject("Password Reset Request"), mailer.TemplatePasswordReset, map[string]any{
		"UserName":    user.FullName(),
		"ResetURL":    s.cfg.AppURL + "/reset-password?token=" + token,
		"ExpiryHours": strconv.Itoa(hours),
	})
}

// AccountDeactivated tells a user their account was switched off.
func (s *EmailService) AccountDeactivated(ctx context.Context, user *entity.User) error {
	return s.send(ctx, []string{user.Email}, s.subject("Account Deactivated"), mailer.TemplateAccountDeactivation, map[string]any{
		"UserName":      user.FullName(),
		"DeactivatedAt": mailer.FormatDate(s.now()),
	})
}

// RequestFiled confirms a new request to its author and notifies the company.
// Both messages are attempted. The first failure is returned.
func (s *EmailService) RequestFiled(ctx context.Context, req *entity.GDPRRequest) error {
	if req.User == nil || req.Company == nil {
		return errors.New("request is missing user or company details")
	}
	userName := strings.TrimSpace(req.User.Firstname + " " + req.User.Lastname)
	date := mailer.FormatDate(req.RequestDate)

	confirmErr := s.send(ctx, []string{req.User.Email}, s.subject("GDPR Request Confirmation"), mailer.TemplateRequestConfirmation, map[string]any{
		"UserName":       userName,
		"RequestID":      strconv.FormatInt(req.ID, 10),
		"RequestType":    req.RequestType,
		"CompanyName":    req.Company.CompanyName,
		"Status":         req.Status,
		"RequestDate":    date,
		"RequestContent": derefString(req.RequestContent),
	})
	notifyErr := s.send(ctx, []string{req.Company.Email}, s.subject("New GDPR Request - %s", req.RequestType), mailer.TemplateRequestNotification, map[string]any{
		"CompanyName":    req.Company.CompanyName,
		"RequestID":      strconv.FormatInt(req.ID, 10),
		"RequestType":    req.RequestType,
		"UserName":       userName,
		"UserEmail":      req.User.Email,
		"RequestDate":    date,
		"RequestContent": derefString(req.RequestContent),
	})
	if confirmErr != nil {
		return confirmErr
	}
	return notifyErr
}

// RequestStatusChanged tells the author that their request moved to a new status.
func (s *EmailService) RequestStatusChanged(ctx context.Context, req *entity.GDPRRequest, oldStatus string) error {
	if req.User == nil || req.Company == nil {
		return errors.New("request is missing user or company details")
	}
	return s.send(ctx, []string{req.User.Email}, s.subject("GDPR Request Update - %s", req.Status), mailer.TemplateRequestStatusUpdate, map[string]any{
		"UserName":    strings.TrimSpace(req.User.Firstname + " " + req.User.Lastname),
		"RequestID":   strconv.FormatInt(req.ID, 10),
		"RequestType": req.RequestType,
		"CompanyName": req.Company.CompanyName,
		"OldStatus":   oldStatus,
		"NewStatus":   req.Status,
		"UpdatedAt":   mailer.FormatDate(s.now()),
	})
}

// SendTest delivers the test template to one address.
func (s *EmailService) SendTest(ctx context.Context, to string) error {
	to, err := recipient(to)
	if err != nil {
		return err
	}
	return s.send(ctx, []string{to}, fmt.Sprintf("Test Email - %s", s.cfg.AppName), mailer.TemplateTest, map[string]any{"Recipient": to})
}

// SendSimple delivers free text wrapped in the common layout.
func (s *EmailService) SendSimple(ctx context.Context, req dto.SimpleEmailRequest) error {
	to, err := recipient(req.To)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.Subject) == "" {
		return invalid("subject", "is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return invalid("text", "is required")
	}
	return s.send(ctx, []string{to}, strings.TrimSpace(req.Subject), mailer.TemplateSimple, map[string]any{"Body": req.Text})
}

// SendCustom renders a named template with caller supplied variables.
func (s *EmailService) SendCustom(ctx context.Context, req dto.CustomEmailRequest) error {
	to, err := recipient(req.To)
	if err != nil {
		return err
	}
	if err := checkTemplate(req.Template, req.Subject); err != nil {
		return err
	}
	return s.send(ctx, []string{to}, strings.TrimSpace(req.Subject), req.Template, req.Variables)
}

// SendBulk sends one message per recipient. Individual failures are reported in the result.
func (s *EmailService) SendBulk(ctx context.Context, req dto.BulkEmailRequest) (*dto.BulkEmailResult, error) {
	if len(req.Recipients) == 0 {
		return nil, invalid("recipients", "at least one recipient is required")
	}
	if err := checkTemplate(req.Template, req.Subject); err != nil {
		return nil, err
	}

	result := &dto.BulkEmailResult{}
	subject := strings.TrimSpace(req.Subject)
	for _, raw := range req.Recipients {
		to, err := recipient(raw)
		if err == nil {
			err = s.send(ctx, []string{to}, subject, req.Template, req.Variables)
		}
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, dto.BulkFailure{Recipient: raw, Error: err.Error()})
			continue
		}
		result.Sent++
	}

	s.log.Info().Int("sent", result.Sent).Int("failed", result.Failed).Str("template", req.Template).Msg("bulk email finished")
	return result, nil
}

// NotifyAdmins forwards a message to every configured administrator address.
func (s *EmailService) NotifyAdmins(ctx context.Context, req dto.AdminNotificationRequest) error {
	if len(s.cfg.AdminEmails) == 0 {
		return errors.New("no admin recipients configured")
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return invalid("subject", "is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return invalid("message", "is required")
	}
	return s.send(ctx, s.cfg.AdminEmails, "[ADMIN] "+subject, mailer.TemplateAdminNotification, map[string]any{
		"Subject": subject,
		"Message": req.Message,
	})
}

// ResendWelcome sends the welcome email to an existing account again.
func (s *EmailService) ResendWelcome(ctx context.Context, userID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.Welcome(ctx, user, "")
}

// Statistics reports delivery counters.
func (s *EmailService) Statistics(ctx context.Context) (*dto.EmailStatistics, error) {
	if s.stats == nil {
		return &dto.EmailStatistics{}, nil
	}
	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("email statistics: %w", err)
	}
	return &dto.EmailStatistics{TotalSent: snap.TotalSent, TotalFailed: snap.TotalFailed, SentToday: snap.SentToday}, nil
}

// Templates lists the template names accepted by SendCustom and SendBulk.
func (s *EmailService) Templates() []string {
	return mailer.Templates()
}

func recipient(raw string) (string, error) {
	to := strings.TrimSpace(raw)
	if to == "" {
		return "", invalid("to", "is required")
	}
	if err := mailer.ValidateEmail(to); err != nil {
		return "", invalid("to", "must be a valid email address")
	}
	return to, nil
}

func checkTemplate(name, subject string) error {
	if !mailer.IsTemplate(name) {
		return invalid("template", "unknown template %q", name)
	}
	if strings.TrimSpace(subject) == "" {
		return invalid("subject", "is required")
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// notify runs a notification and logs its failure. Email problems never fail the calling operation.
func notify(log zerolog.Logger, what string, err error) {
	if err != nil {
		log.Error().Err(err).Str("email", what).Msg("email notification failed")
	}
}
