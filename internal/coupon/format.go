package coupon

import (
	"regexp"
	"strings"

	"bundle-kart/internal/model"
)

// Coupon code length bounds after normalisation.
const (
	minCodeLength = 3
	maxCodeLength = 50
)

var codePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// Format failures. All carry INVALID_FORMAT so callers can map them to a
// single rejection path before any database lookup happens.
var (
	ErrCodeMissing  = model.NewDomainError(model.CodeInvalidFormat, "Please enter a coupon code")
	ErrCodeTooShort = model.NewDomainError(model.CodeInvalidFormat, "Coupon code too short")
	ErrCodeTooLong  = model.NewDomainError(model.CodeInvalidFormat, "Coupon code too long")
	ErrCodeCharset  = model.NewDomainError(model.CodeInvalidFormat, "Coupon code can only contain letters, numbers, and hyphens")
)

// NormalizeCode trims and upper-cases a raw coupon code, then checks it
// syntactically: 3-50 characters, letters, digits and hyphens only. It
// returns the normalised code or a *model.DomainError describing the first
// failed check. Pure, no side effects.
func NormalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))

	if code == "" {
		return "", ErrCodeMissing
	}
	if len(code) < minCodeLength {
		return "", ErrCodeTooShort
	}
	if len(code) > maxCodeLength {
		return "", ErrCodeTooLong
	}
	if !codePattern.MatchString(code) {
		return "", ErrCodeCharset
	}

	return code, nil
}
