package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*SessionManager, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "mawrid_session", time.Hour, false), mr, client
}

func roundTrip(t *testing.T, sm *SessionManager, cookies []*http.Cookie, fn func(*Session)) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	fn(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, sess))
	return rec.Result().Cookies()
}

func TestUntouchedSessionIsNotStored(t *testing.T) {
	sm, mr, _ := newManager(t)
	cookies := roundTrip(t, sm, nil, func(*Session) {})
	assert.Empty(t, cookies)
	assert.Empty(t, mr.Keys())
}

func TestSignInRotatesSessionID(t *testing.T) {
	sm, mr, _ := newManager(t)
	first := roundTrip(t, sm, nil, func(s *Session) { s.Set("lang", "en") })
	require.Len(t, first, 1)
	oldID := first[0].Value

	second := roundTrip(t, sm, first, func(s *Session) {
		s.SignIn(Staff{UserID: "u1", Email: "staff@mawrid.test", AccessToken: "tok", RefreshToken: "ref", ExpiresAt: 1900000000})
	})
	require.Len(t, second, 1)
	assert.NotEqual(t, oldID, second[0].Value)
	assert.False(t, mr.Exists("session:"+oldID))

	roundTrip(t, sm, second, func(s *Session) {
		require.True(t, s.Authenticated())
		assert.Equal(t, "staff@mawrid.test", s.Staff().Email)
		assert.Equal(t, "en", s.Get("lang"))
		assert.Equal(t, time.Unix(1900000000, 0), s.Staff().Expiry())
	})
}

func TestFlashSurvivesUntilPopped(t *testing.T) {
	sm, _, _ := newManager(t)
	cookies := roundTrip(t, sm, nil, func(s *Session) {
		s.AddFlash(FlashMessage{Kind: FlashSuccess, Message: "saved"})
	})
	roundTrip(t, sm, cookies, func(s *Session) {
		msg := s.PopFlash()
		require.NotNil(t, msg)
		assert.Equal(t, "saved", msg.Message)
	})
	roundTrip(t, sm, cookies, func(s *Session) {
		assert.Nil(t, s.PopFlash())
	})
}

func TestDestroyExpiresCookie(t *testing.T) {
	sm, mr, _ := newManager(t)
	cookies := roundTrip(t, sm, nil, func(s *Session) { s.Set("k", "v") })
	out := roundTrip(t, sm, cookies, func(s *Session) { sm.Destroy(s) })
	require.Len(t, out, 1)
	assert.Equal(t, -1, out[0].MaxAge)
	assert.Empty(t, mr.Keys())
}

func TestForeignCookieGetsFreshSession(t *testing.T) {
	sm, _, _ := newManager(t)
	roundTrip(t, sm, []*http.Cookie{{Name: "mawrid_session", Value: "not-a-uuid"}}, func(s *Session) {
		assert.NotEqual(t, "not-a-uuid", s.ID)
		assert.False(t, s.Authenticated())
	})
}

func TestUpdateTokensKeepsRefreshWhenEmpty(t *testing.T) {
	s := &Session{}
	s.UpdateTokens("a", "b", 1)
	assert.Nil(t, s.Staff())

	s.SignIn(Staff{AccessToken: "old", RefreshToken: "r1"})
	s.UpdateTokens("new", "", 42)
	assert.Equal(t, "new", s.Staff().AccessToken)
	assert.Equal(t, "r1", s.Staff().RefreshToken)
	s.SignOut()
	assert.False(t, s.Authenticated())
}

func TestCSRFTokens(t *testing.T) {
	m := NewCSRFManager("secret")
	s := &Session{}
	token := m.Token(s)
	require.NotEmpty(t, token)
	assert.Equal(t, token, m.Token(s))
	assert.NoError(t, m.Verify(s, token))
	assert.ErrorIs(t, m.Verify(s, token+"x"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.Verify(s, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, m.Verify(&Session{}, token), ErrCSRFTokenMissing)
	assert.ErrorIs(t, NewCSRFManager("other").Verify(s, token), ErrCSRFTokenMismatch)
}

func TestIdempotencyStore(t *testing.T) {
	_, _, client := newManager(t)
	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "k1", "suppliers.create"))
	err := store.CheckAndInsert(ctx, "k1", "suppliers.create")
	assert.True(t, errors.Is(err, ErrIdempotencyConflict))
	require.NoError(t, store.CheckAndInsert(ctx, "k1", "suppliers.update"))

	require.NoError(t, store.Delete(ctx, "k1", "suppliers.create"))
	assert.NoError(t, store.CheckAndInsert(ctx, "k1", "suppliers.create"))
	assert.Error(t, store.CheckAndInsert(ctx, "", "suppliers.create"))

	var nilStore *IdempotencyStore
	assert.NoError(t, nilStore.CheckAndInsert(ctx, "k", "m"))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(9, 10, 25)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 1, NewPagination(0, 0, 0).TotalPages)
}
