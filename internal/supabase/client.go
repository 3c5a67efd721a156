// Package supabase talks to the hosted backend: the PostgREST table API and
// the GoTrue identity API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Observer receives one call per backend request.
type Observer interface {
	ObserveBackend(service, op string, err error)
}

// Config configures the hosted backend client.
type Config struct {
	URL        string
	AnonKey    string
	JWTSecret  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
}

// Client is the shared HTTP plumbing for the REST and auth APIs.
type Client struct {
	baseURL    string
	anonKey    string
	jwtSecret  []byte
	httpClient *http.Client
	observer   Observer
}

// NewClient constructs a Client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		jwtSecret:  []byte(cfg.JWTSecret),
		httpClient: httpClient,
		observer:   cfg.Observer,
	}
}

// Ping checks that the REST endpoint answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("supabase returned status %d", resp.StatusCode)
	}
	return nil
}

type accessTokenKey struct{}

// WithAccessToken makes REST calls made with ctx act as the signed-in user.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// WithoutAccessToken makes REST calls made with ctx use the anon key even
// when a parent context carries a user token.
func WithoutAccessToken(ctx context.Context) context.Context {
	if AccessTokenFrom(ctx) == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, "")
}

// AccessTokenFrom returns the user token stored in ctx, if any.
func AccessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

type request struct {
	service string
	op      string
	method  string
	path    string
	query   string
	body    any
	bearer  string
	headers map[string]string
}

// do executes req and decodes a JSON reply into dest when dest is non-nil.
func (c *Client) do(ctx context.Context, r request, dest any) (*http.Response, error) {
	resp, err := c.send(ctx, r, dest)
	if c.observer != nil {
		c.observer.ObserveBackend(r.service, r.op, err)
	}
	return resp, err
}

func (c *Client) send(ctx context.Context, r request, dest any) (*http.Response, error) {
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("supabase: encode %s body: %w", r.op, err)
		}
		body = bytes.NewReader(raw)
	}
	target := c.baseURL + r.path
	if r.query != "" {
		target += "?" + r.query
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	bearer := r.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: %s: %w", r.op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, fmt.Errorf("supabase: read %s reply: %w", r.op, err)
	}
	if resp.StatusCode >= 400 {
		return resp, decodeAPIError(resp.StatusCode, raw)
	}
	if dest != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, dest); err != nil {
			return resp, fmt.Errorf("supabase: decode %s reply: %w", r.op, err)
		}
	}
	return resp, nil
}
