package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/supabase"
)

// Message keys for identity failures the interface knows how to explain.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailNotConfirmed  = "Email not confirmed yet"
	MsgTooManyRequests    = "Too many attempts. Try again later"
	msgGeneric            = "Sign-in error: %s"
)

// ErrNoSession is returned when a guarded operation runs without a signed-in
// staff member.
var ErrNoSession = errors.New("auth: no staff session")

// AuthError is a failure reported by the identity service. Key is a known
// message key, or empty when the raw message is shown behind a generic
// prefix.
type AuthError struct {
	Key string
	Raw string
	Err error
}

func (e *AuthError) Error() string {
	if e.Raw != "" {
		return "auth: " + e.Raw
	}
	return "auth: " + e.Key
}

func (e *AuthError) Unwrap() error { return e.Err }

// Localize renders the failure in lang.
func (e *AuthError) Localize(lang string) string {
	if e.Key != "" {
		return i18n.T(lang, e.Key)
	}
	return i18n.T(lang, msgGeneric, e.Raw)
}

// Unauthorized reports whether the identity service rejected the token.
func (e *AuthError) Unauthorized() bool {
	var apiErr *supabase.APIError
	return errors.As(e.Err, &apiErr) && apiErr.Unauthorized()
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	raw := err.Error()
	var apiErr *supabase.APIError
	status := 0
	if errors.As(err, &apiErr) {
		raw = apiErr.Message
		status = apiErr.Status
	}
	lower := strings.ToLower(raw)
	key := ""
	switch {
	case strings.Contains(lower, "invalid login credentials"):
		key = MsgInvalidCredentials
	case strings.Contains(lower, "email not confirmed"):
		key = MsgEmailNotConfirmed
	case status == http.StatusTooManyRequests || strings.Contains(lower, "too many requests") || strings.Contains(lower, "rate limit"):
		key = MsgTooManyRequests
	}
	return &AuthError{Key: key, Raw: raw, Err: err}
}
