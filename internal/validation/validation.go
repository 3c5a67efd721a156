// Package validation holds the syntactic rules for supplier contact fields.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// PhoneLength is the digit count of a national mobile number.
	PhoneLength = 11
	// PhonePrefix is the required leading pair of a national mobile number.
	PhonePrefix = "01"

	// TagPhone is the validator tag backed by IsValidPhone.
	TagPhone = "mobile01"
	// TagEmail is the validator tag backed by IsValidEmail.
	TagEmail = "plainemail"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Digits returns value with every non-digit character removed.
func Digits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone reports whether value reduces to an 11 digit number starting
// with "01". International prefixes such as +20 are rejected.
func IsValidPhone(value string) bool {
	digits := Digits(value)
	return len(digits) == PhoneLength && strings.HasPrefix(digits, PhonePrefix)
}

// IsValidEmail reports whether value looks like local@domain.tld.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// RegisterTags installs the phone and email rules as validator tags.
func RegisterTags(v *validator.Validate) error {
	if err := v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation(TagEmail, func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
}

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	if err := RegisterTags(v); err != nil {
		panic(err)
	}
	return v
}
