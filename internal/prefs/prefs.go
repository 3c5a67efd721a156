// Package prefs keeps the small per-browser preferences in cookies: the
// interface language and the remembered login email.
package prefs

import (
	"context"
	"net/http"
	"time"

	"github.com/mawrid/mawrid/internal/i18n"
)

// Cookie names.
const (
	LangCookie          = "lang"
	RememberEmailCookie = "remember_email"
)

const maxAge = 365 * 24 * time.Hour

// Store writes preference cookies.
type Store struct {
	secure bool
}

// NewStore constructs a Store. secure marks cookies HTTPS-only.
func NewStore(secure bool) *Store {
	return &Store{secure: secure}
}

// Lang negotiates the interface language from the cookie and
// Accept-Language.
func Lang(r *http.Request) string {
	pref := ""
	if c, err := r.Cookie(LangCookie); err == nil {
		pref = c.Value
	}
	return i18n.Negotiate(pref, r.Header.Get("Accept-Language"))
}

// SetLang stores lang when it is supported and reports whether it was.
func (s *Store) SetLang(w http.ResponseWriter, lang string) bool {
	lang = i18n.Normalize(lang)
	if lang == "" {
		return false
	}
	s.set(w, LangCookie, lang)
	return true
}

// RememberedEmail returns the email saved by a previous remember-me login.
func RememberedEmail(r *http.Request) string {
	c, err := r.Cookie(RememberEmailCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// Remember saves email when remember is set and clears it otherwise.
func (s *Store) Remember(w http.ResponseWriter, email string, remember bool) {
	if remember && email != "" {
		s.set(w, RememberEmailCookie, email)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RememberEmailCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Store) set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type langKey struct{}

// Middleware resolves the request language once and stores it in context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), langKey{}, Lang(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LangFrom returns the language resolved by Middleware, or the default.
func LangFrom(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
		return lang
	}
	return i18n.Default
}
