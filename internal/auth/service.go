package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/supabase"
)

// IdentityProvider is the hosted identity service.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	SignUp(ctx context.Context, email, password string) (*supabase.SignUpResult, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
	Refresh(ctx context.Context, refreshToken string) (*supabase.Session, error)
	ResetPasswordForEmail(ctx context.Context, email, redirectURL string) error
	AdoptRecovery(ctx context.Context, accessToken, refreshToken string) (*supabase.Session, error)
	UpdatePassword(ctx context.Context, accessToken, password string) (*supabase.User, error)
}

// TokenInspector reads expiry from access tokens.
type TokenInspector interface {
	TokenExpired(token string, skew time.Duration) bool
}

// expirySkew refreshes tokens slightly before they lapse.
const expirySkew = 30 * time.Second

// Service wraps the identity provider with session bookkeeping.
type Service struct {
	idp    IdentityProvider
	tokens TokenInspector
	now    func() time.Time
}

// NewService constructs a Service. tokens may be nil, in which case only
// the stored expiry is consulted.
func NewService(idp IdentityProvider, tokens TokenInspector) *Service {
	return &Service{idp: idp, tokens: tokens, now: time.Now}
}

// Login signs in with email and password.
func (s *Service) Login(ctx context.Context, email, password string) (shared.Staff, error) {
	sess, err := s.idp.SignIn(ctx, email, password)
	if err != nil {
		return shared.Staff{}, classify(err)
	}
	return staffFrom(sess), nil
}

// Signup registers a staff account. The returned staff is nil when the
// project requires email confirmation first.
func (s *Service) Signup(ctx context.Context, email, password string) (*shared.Staff, error) {
	res, err := s.idp.SignUp(ctx, email, password)
	if err != nil {
		return nil, classify(err)
	}
	if res.Session == nil {
		return nil, nil
	}
	staff := staffFrom(res.Session)
	return &staff, nil
}

// Logout revokes the staff member's tokens.
func (s *Service) Logout(ctx context.Context, staff *shared.Staff) error {
	if staff == nil || staff.AccessToken == "" {
		return nil
	}
	if err := s.idp.SignOut(ctx, staff.AccessToken); err != nil {
		return classify(err)
	}
	return nil
}

// CurrentUser confirms staff with the identity service, refreshing an
// expired access token first. refreshed reports whether the returned staff
// carries new tokens.
func (s *Service) CurrentUser(ctx context.Context, staff *shared.Staff) (current shared.Staff, refreshed bool, err error) {
	if staff == nil || staff.AccessToken == "" {
		return shared.Staff{}, false, ErrNoSession
	}
	current = *staff
	if s.expired(current) && current.RefreshToken != "" {
		sess, err := s.idp.Refresh(ctx, current.RefreshToken)
		if err != nil {
			return shared.Staff{}, false, classify(err)
		}
		current = staffFrom(sess)
		refreshed = true
	}
	user, err := s.idp.GetUser(ctx, current.AccessToken)
	if err != nil {
		return shared.Staff{}, false, classify(err)
	}
	current.UserID = user.ID
	if user.Email != "" {
		current.Email = user.Email
	}
	return current, refreshed, nil
}

// SendPasswordReset asks the identity service to mail a recovery link.
func (s *Service) SendPasswordReset(ctx context.Context, email, redirectURL string) error {
	return classify(s.idp.ResetPasswordForEmail(ctx, email, redirectURL))
}

// AdoptRecovery turns the tokens carried by a recovery link into a staff
// session.
func (s *Service) AdoptRecovery(ctx context.Context, accessToken, refreshToken string) (shared.Staff, error) {
	if accessToken == "" {
		return shared.Staff{}, ErrNoSession
	}
	sess, err := s.idp.AdoptRecovery(ctx, accessToken, refreshToken)
	if err != nil {
		return shared.Staff{}, classify(err)
	}
	return staffFrom(sess), nil
}

// UpdatePassword sets a new password for the signed-in staff member.
func (s *Service) UpdatePassword(ctx context.Context, staff *shared.Staff, password string) error {
	if staff == nil || staff.AccessToken == "" {
		return ErrNoSession
	}
	_, err := s.idp.UpdatePassword(ctx, staff.AccessToken, password)
	return classify(err)
}

func (s *Service) expired(staff shared.Staff) bool {
	if staff.ExpiresAt > 0 {
		return !s.now().Add(expirySkew).Before(time.Unix(staff.ExpiresAt, 0))
	}
	if s.tokens != nil {
		return s.tokens.TokenExpired(staff.AccessToken, expirySkew)
	}
	return false
}

func staffFrom(sess *supabase.Session) shared.Staff {
	staff := shared.Staff{
		UserID:       sess.User.ID,
		Email:        sess.User.Email,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}
	if exp := sess.Expiry(); !exp.IsZero() {
		staff.ExpiresAt = exp.Unix()
	}
	return staff
}

// LogAuthEvents subscribes logger to identity state transitions and returns
// the unsubscribe function.
func LogAuthEvents(client *supabase.AuthClient, logger *slog.Logger) func() {
	return client.OnAuthStateChange(func(event supabase.AuthEvent, sess *supabase.Session) {
		attrs := []any{slog.String("event", string(event))}
		if sess != nil && sess.User.Email != "" {
			attrs = append(attrs, slog.String("email", sess.User.Email))
		}
		logger.Info("auth state change", attrs...)
	})
}
