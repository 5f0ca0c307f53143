package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"sort"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// Template names.
const (
	TemplateWelcome             = "welcome-email"
	TemplatePasswordReset       = "password-reset-email"
	TemplateRequestConfirmation = "gdpr-request-confirmation"
	TemplateRequestNotification = "gdpr-request-notification"
	TemplateRequestStatusUpdate = "gdpr-request-status-update"
	TemplateAccountDeactivation = "account-deactivation-email"
	TemplateAdminNotification   = "admin-notification"
	TemplateTest                = "test-email"
	TemplateSimple              = "simple"
)

// DateFormat is the layout used for dates rendered into emails.
const DateFormat = "02/01/2006 15:04"

// templateVariables lists the variables each template needs besides AppName, AppURL and CurrentDate.
var templateVariables = map[string][]string{
	TemplateWelcome:             {"UserName", "Email", "LoginURL"},
	TemplatePasswordReset:       {"UserName", "ResetURL", "ExpiryHours"},
	TemplateRequestConfirmation: {"UserName", "RequestID", "RequestType", "CompanyName", "Status", "RequestDate"},
	TemplateRequestNotification: {"CompanyName", "RequestID", "RequestType", "UserName", "UserEmail", "RequestDate"},
	TemplateRequestStatusUpdate: {"UserName", "RequestID", "RequestType", "CompanyName", "OldStatus", "NewStatus", "UpdatedAt"},
	TemplateAccountDeactivation: {"UserName", "DeactivatedAt"},
	TemplateAdminNotification:   {"Subject", "Message"},
	TemplateTest:                {"Recipient"},
	TemplateSimple:              {"Body"},
}

// Renderer executes the embedded HTML and text templates.
type Renderer struct {
	appName string
	appURL  string
	html    map[string]*htmltemplate.Template
	text    map[string]*texttemplate.Template
	now     func() time.Time
}

// NewRenderer parses every embedded template.
func NewRenderer(appName, appURL string) (*Renderer, error) {
	r := &Renderer{
		appName: appName,
		appURL:  appURL,
		html:    make(map[string]*htmltemplate.Template, len(templateVariables)),
		text:    make(map[string]*texttemplate.Template, len(templateVariables)),
		now:     time.Now,
	}

	for name := range templateVariables {
		h, err := htmltemplate.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s html template: %w", name, err)
		}
		t, err := texttemplate.ParseFS(templateFS, "templates/"+name+".txt")
		if err != nil {
			return nil, fmt.Errorf("parse %s text template: %w", name, err)
		}
		r.html[name] = h
		r.text[name] = t
	}
	return r, nil
}

// Templates returns the known template names in alphabetical order.
func Templates() []string {
	names := make([]string, 0, len(templateVariables))
	for name := range templateVariables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsTemplate reports whether name is a known template.
func IsTemplate(name string) bool {
	_, ok := templateVariables[name]
	return ok
}

// Render executes the named template with vars merged over the common variables.
func (r *Renderer) Render(name string, vars map[string]any) (string, string, error) {
	required, ok := templateVariables[name]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	data := map[string]any{
		"AppName":     r.appName,
		"AppURL":      r.appURL,
		"CurrentDate": r.now().Format(DateFormat),
	}
	for k, v := range vars {
		data[k] = v
	}
	for _, key := range required {
		if isBlank(data[key]) {
			return "", "", fmt.Errorf("%w: %s requires %s", ErrMissingVariable, name, key)
		}
	}

	var htmlBuf bytes.Buffer
	if err := r.html[name].ExecuteTemplate(&htmlBuf, name+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	var textBuf bytes.Buffer
	if err := r.text[name].Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// FormatDate renders t with DateFormat.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}
