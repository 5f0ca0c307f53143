package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-z0-9+_.-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
	roleNamePattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)
	idnaProfile     = idna.Lookup
)

const (
	maxNameLength        = 50
	maxEmailLength       = 50
	maxRoleLength        = 10
	maxContentLength     = 150
	minCompanyNameLength = 2
	minPasswordLength    = 6
	maxPasswordLength    = 128
	defaultPhoneRegion   = "BE"
)

// NormalizeEmail trims and lower-cases an address, converts an internationalised
// domain to its ASCII form and checks the result.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", invalid("email", "is required")
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", invalid("email", "must be a valid email address")
	}
	asciiDomain, err := idnaProfile.ToASCII(email[at+1:])
	if err != nil || asciiDomain == "" {
		return "", invalid("email", "has an invalid domain")
	}
	email = email[:at+1] + asciiDomain

	if !emailPattern.MatchString(email) {
		return "", invalid("email", "must be a valid email address")
	}
	if len(email) > maxEmailLength {
		return "", invalid("email", "must be at most %d characters", maxEmailLength)
	}
	return email, nil
}

// ValidatePassword enforces the account password policy.
func ValidatePassword(field, password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return invalid(field, "must be between %d and %d characters", minPasswordLength, maxPasswordLength)
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return invalid(field, "must contain at least one letter and one digit")
	}
	return nil
}

// NormalizePhone returns the E.164 form of raw, parsed relative to region.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", invalid("phone", "is not a phone number")
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return "", invalid("phone", "is not a valid phone number")
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// NormalizeRoleName upper-cases a role and checks its shape.
func NormalizeRoleName(raw string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case name == "":
		return "", invalid("role", "is required")
	case len(name) > maxRoleLength:
		return "", invalid("role", "must be at most %d characters", maxRoleLength)
	case !roleNamePattern.MatchString(name):
		return "", invalid("role", "must contain only letters, digits and underscores and not start with a digit")
	}
	return name, nil
}

func requireName(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", invalid(field, "is required")
	}
	if len([]rune(name)) > maxNameLength {
		return "", invalid(field, "must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func normalizeCompanyName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if n := len([]rune(name)); n < minCompanyNameLength || n > maxNameLength {
		return "", invalid("company_name", "must be between %d and %d characters", minCompanyNameLength, maxNameLength)
	}
	return name, nil
}

// normalizeContent trims request text. Blank content becomes nil.
func normalizeContent(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	content := strings.TrimSpace(*raw)
	if content == "" {
		return nil, nil
	}
	if len([]rune(content)) > maxContentLength {
		return nil, invalid("request_content", "must be at most %d characters", maxContentLength)
	}
	return &content, nil
}
