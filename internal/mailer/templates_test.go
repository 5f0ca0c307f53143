package mailer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("GDPR Application", "http://localhost:4200")
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	r.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC) }
	return r
}

func TestRenderer_RendersEveryTemplate(t *testing.T) {
	r := newTestRenderer(t)
	vars := map[string]any{
		"UserName": "Ada Lovelace", "Email": "ada@example.com", "LoginURL": "http://localhost:4200/login",
		"ResetURL": "http://localhost:4200/reset-password?token=abc", "ExpiryHours": 24,
		"RequestID": 42, "RequestType": "DELETION", "CompanyName": "Acme", "Status": "PENDING",
		"RequestDate": "09/03/2024 14:05", "UserEmail": "ada@example.com", "OldStatus": "PENDING",
		"NewStatus": "PROCESSED", "UpdatedAt": "10/03/2024 09:00", "DeactivatedAt": "10/03/2024 09:00",
		"Subject": "Heads up", "Message": "Disk almost full", "Recipient": "ops@example.com", "Body": "Hello there",
	}

	for _, name := range Templates() {
		t.Run(name, func(t *testing.T) {
			html, text, err := r.Render(name, vars)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(html, "GDPR Application") || !strings.Contains(html, "09/03/2024 14:05") {
				t.Fatalf("expected common variables in html, got %q", html)
			}
			if strings.TrimSpace(text) == "" || strings.Contains(text, "<no value>") {
				t.Fatalf("unexpected text body: %q", text)
			}
		})
	}
}

func TestRenderer_WelcomePasswordIsOptional(t *testing.T) {
	r := newTestRenderer(t)
	vars := map[string]any{"UserName": "Ada", "Email": "ada@example.com", "LoginURL": "http://x/login"}

	_, text, err := r.Render(TemplateWelcome, vars)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(text, "Temporary password") {
		t.Fatalf("expected no password section, got %q", text)
	}

	vars["Password"] = "S3cret!pw"
	html, text, err := r.Render(TemplateWelcome, vars)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "S3cret!pw") || !strings.Contains(html, "S3cret!pw") {
		t.Fatalf("expected generated password in both bodies")
	}
}

func TestRenderer_EscapesHTML(t *testing.T) {
	r := newTestRenderer(t)
	html, _, err := r.Render(TemplateSimple, map[string]any{"Body": "<script>alert(1)</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected escaped body, got %q", html)
	}
}

func TestRenderer_Errors(t *testing.T) {
	r := newTestRenderer(t)

	if _, _, err := r.Render("nope", nil); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if _, _, err := r.Render(TemplateTest, map[string]any{}); !errors.Is(err, ErrMissingVariable) {
		t.Fatalf("expected ErrMissingVariable, got %v", err)
	}
	if _, _, err := r.Render(TemplateSimple, map[string]any{"Body": ""}); !errors.Is(err, ErrMissingVariable) {
		t.Fatalf("expected blank variable to be rejected, got %v", err)
	}
}

func TestTemplates(t *testing.T) {
	names := Templates()
	if len(names) != 9 {
		t.Fatalf("expected 9 templates, got %v", names)
	}
	if !IsTemplate(TemplateRequestStatusUpdate) || IsTemplate("layout") {
		t.Fatalf("unexpected template membership")
	}
}
