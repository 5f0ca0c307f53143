package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*"

	// MinGeneratedPasswordLength is the shortest password GeneratePassword produces.
	MinGeneratedPasswordLength = 8
)

// GeneratePassword returns a random password holding at least one upper case letter,
// lower case letter, digit and special character. Lengths below 8 are raised to 8.
func GeneratePassword(length int) (string, error) {
	if length < MinGeneratedPasswordLength {
		length = MinGeneratedPasswordLength
	}

	all := upperChars + lowerChars + digitChars + specialChars
	out := make([]byte, 0, length)
	for _, set := range []string{upperChars, lowerChars, digitChars, specialChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// GenerateSimplePassword returns a random alphanumeric password of the given length.
func GenerateSimplePassword(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("password length must be positive")
	}

	all := upperChars + lowerChars + digitChars
	out := make([]byte, length)
	for i := range out {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	return string(out), nil
}

// IsStrongPassword reports whether password meets the generator's own policy.
func IsStrongPassword(password string) bool {
	if len(password) < MinGeneratedPasswordLength {
		return false
	}
	return strings.ContainsAny(password, upperChars) &&
		strings.ContainsAny(password, lowerChars) &&
		strings.ContainsAny(password, digitChars) &&
		strings.ContainsAny(password, specialChars)
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
