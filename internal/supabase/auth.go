package supabase

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// AuthEvent names an identity state transition.
type AuthEvent string

const (
	EventSignedIn         AuthEvent = "SIGNED_IN"
	EventSignedOut        AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed   AuthEvent = "TOKEN_REFRESHED"
	EventPasswordRecovery AuthEvent = "PASSWORD_RECOVERY"
	EventUserUpdated      AuthEvent = "USER_UPDATED"
)

// AuthListener is called after every identity state transition.
type AuthListener func(event AuthEvent, session *Session)

// User is the identity record returned by GoTrue.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Session is a token pair issued by GoTrue.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Expiry returns when the access token stops being accepted.
func (s *Session) Expiry() time.Time {
	if s == nil {
		return time.Time{}
	}
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	if s.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// SignUpResult holds the new user and, when the project auto-confirms
// emails, an active session.
type SignUpResult struct {
	User    User
	Session *Session
}

// AuthClient wraps the GoTrue endpoints.
type AuthClient struct {
	client    *Client
	mu        sync.RWMutex
	listeners map[int]AuthListener
	nextID    int
}

// NewAuthClient constructs an AuthClient sharing c's transport.
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{client: c, listeners: make(map[int]AuthListener)}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new staff account.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	var reply struct {
		Session
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	_, err := a.client.do(ctx, request{
		service: "auth", op: "signup", method: http.MethodPost,
		path: "/auth/v1/signup", body: credentials{Email: email, Password: password},
	}, &reply)
	if err != nil {
		return nil, err
	}
	if reply.AccessToken == "" {
		return &SignUpResult{User: User{ID: reply.ID, Email: reply.Email}}, nil
	}
	sess := reply.Session
	a.emit(EventSignedIn, &sess)
	return &SignUpResult{User: sess.User, Session: &sess}, nil
}

// SignIn exchanges email and password for a session.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var sess Session
	_, err := a.client.do(ctx, request{
		service: "auth", op: "signin", method: http.MethodPost,
		path: "/auth/v1/token", query: "grant_type=password",
		body: credentials{Email: email, Password: password},
	}, &sess)
	if err != nil {
		return nil, err
	}
	a.emit(EventSignedIn, &sess)
	return &sess, nil
}

// Refresh trades a refresh token for a new session.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var sess Session
	_, err := a.client.do(ctx, request{
		service: "auth", op: "refresh", method: http.MethodPost,
		path: "/auth/v1/token", query: "grant_type=refresh_token",
		body: map[string]string{"refresh_token": refreshToken},
	}, &sess)
	if err != nil {
		return nil, err
	}
	a.emit(EventTokenRefreshed, &sess)
	return &sess, nil
}

// SignOut revokes the session behind accessToken.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := a.client.do(ctx, request{
		service: "auth", op: "signout", method: http.MethodPost,
		path: "/auth/v1/logout", bearer: accessToken,
	}, nil)
	if err != nil {
		return err
	}
	a.emit(EventSignedOut, nil)
	return nil
}

// GetUser returns the user owning accessToken.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	_, err := a.client.do(ctx, request{
		service: "auth", op: "user", method: http.MethodGet,
		path: "/auth/v1/user", bearer: accessToken,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPasswordForEmail sends a recovery link that lands on redirectURL.
func (a *AuthClient) ResetPasswordForEmail(ctx context.Context, email, redirectURL string) error {
	query := ""
	if redirectURL != "" {
		query = url.Values{"redirect_to": {redirectURL}}.Encode()
	}
	_, err := a.client.do(ctx, request{
		service: "auth", op: "recover", method: http.MethodPost,
		path: "/auth/v1/recover", query: query,
		body: map[string]string{"email": email},
	}, nil)
	return err
}

// AdoptRecovery validates tokens delivered by a recovery link and returns
// them as a session.
func (a *AuthClient) AdoptRecovery(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	user, err := a.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	sess := &Session{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "bearer", User: *user}
	if claims, err := a.client.ParseAccessToken(accessToken); err == nil && claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Unix()
	}
	a.emit(EventPasswordRecovery, sess)
	return sess, nil
}

// UpdatePassword sets a new password for the user owning accessToken.
func (a *AuthClient) UpdatePassword(ctx context.Context, accessToken, password string) (*User, error) {
	var user User
	_, err := a.client.do(ctx, request{
		service: "auth", op: "update_user", method: http.MethodPut,
		path: "/auth/v1/user", bearer: accessToken,
		body: map[string]string{"password": password},
	}, &user)
	if err != nil {
		return nil, err
	}
	a.emit(EventUserUpdated, nil)
	return &user, nil
}

// OnAuthStateChange registers fn and returns a function removing it.
func (a *AuthClient) OnAuthStateChange(fn AuthListener) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *AuthClient) emit(event AuthEvent, sess *Session) {
	a.mu.RLock()
	listeners := make([]AuthListener, 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.mu.RUnlock()
	for _, fn := range listeners {
		fn(event, sess)
	}
}
