package service

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"trims and lowercases": {input: "  Jane.Doe@Example.COM ", want: "jane.doe@example.com"},
		"plus addressing":      {input: "jane+gdpr@example.org", want: "jane+gdpr@example.org"},
		"missing domain":       {input: "jane@", wantErr: true},
		"missing at":           {input: "jane.example.com", wantErr: true},
		"no tld":               {input: "jane@localhost", wantErr: true},
		"blank":                {input: "   ", wantErr: true},
		"too long":             {input: strings.Repeat("a", 45) + "@example.com", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NormalizeEmail(tc.input)
			if tc.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Field != "email" {
					t.Fatalf("expected email validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeEmailConvertsUnicodeDomains(t *testing.T) {
	got, err := NormalizeEmail("Test@Exämple.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "test@xn--") || !strings.HasSuffix(got, ".com") {
		t.Fatalf("expected punycode domain, got %q", got)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := map[string]struct {
		password string
		valid    bool
	}{
		"letters and digits": {password: "secret12", valid: true},
		"too short":          {password: "ab1", valid: false},
		"no digit":           {password: "password", valid: false},
		"no letter":          {password: "12345678", valid: false},
		"too long":           {password: strings.Repeat("a1", 65), valid: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidatePassword("password", tc.password)
			if tc.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Fatalf("expected %q to be rejected", tc.password)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone(" (415) 555-1234 ", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+14155551234" {
		t.Fatalf("unexpected phone: %s", got)
	}

	if _, err := NormalizePhone("12345", "US"); err == nil {
		t.Fatalf("expected invalid phone to be rejected")
	}
}

func TestNormalizeRoleName(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"upper cases":   {input: " auditor ", want: "AUDITOR"},
		"underscore":    {input: "_ops_2", want: "_OPS_2"},
		"leading digit": {input: "2FA", wantErr: true},
		"hyphen":        {input: "DATA-OFF", wantErr: true},
		"too long":      {input: "SUPERVISORS", wantErr: true},
		"blank":         {input: "", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NormalizeRoleName(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeContent(t *testing.T) {
	if got, err := normalizeContent(stringPtr("   ")); err != nil || got != nil {
		t.Fatalf("expected blank content to become nil, got %v %v", got, err)
	}
	if got, err := normalizeContent(stringPtr("  delete my data ")); err != nil || *got != "delete my data" {
		t.Fatalf("expected trimmed content, got %v %v", got, err)
	}
	if _, err := normalizeContent(stringPtr(strings.Repeat("x", 151))); err == nil {
		t.Fatalf("expected content over 150 characters to be rejected")
	}
}
