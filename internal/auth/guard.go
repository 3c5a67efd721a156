package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/prefs"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/supabase"
)

// LoginPath is where unauthenticated staff are sent.
const LoginPath = "/auth/login"

// MsgSessionExpired is flashed when a stored session no longer verifies.
const MsgSessionExpired = "Your session has expired. Please sign in again."

// Guard protects the staff surface.
type Guard struct {
	service *Service
	logger  *slog.Logger
}

// NewGuard constructs a Guard.
func NewGuard(service *Service, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{service: service, logger: logger}
}

// RequireUser lets a request through only with a signed-in staff member.
// Page loads confirm the user with the identity service once per request;
// form posts trust the session and rely on storage policies.
func (g *Guard) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if !sess.Authenticated() {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		staff := sess.Staff()

		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			current, refreshed, err := g.service.CurrentUser(r.Context(), staff)
			if err != nil {
				g.logger.Warn("session check failed", slog.String("email", staff.Email), slog.Any("error", err))
				sess.SignOut()
				var authErr *AuthError
				if errors.As(err, &authErr) && authErr.Unauthorized() {
					sess.AddFlash(shared.FlashMessage{Kind: shared.FlashError, Message: i18n.T(prefs.LangFrom(r.Context()), MsgSessionExpired)})
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			if refreshed {
				sess.UpdateTokens(current.AccessToken, current.RefreshToken, current.ExpiresAt)
			}
			staff = &current
		}

		ctx := supabase.WithAccessToken(r.Context(), staff.AccessToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectAuthenticated sends visitors who already hold a session to the
// dashboard.
func RedirectAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && shared.SessionFromContext(r.Context()).Authenticated() {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExpireSession signs the staff member out after the backend rejected their
// token and sends them to the login page.
func ExpireSession(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		sess.SignOut()
		sess.AddFlash(shared.FlashMessage{Kind: shared.FlashError, Message: i18n.T(prefs.LangFrom(r.Context()), MsgSessionExpired)})
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
