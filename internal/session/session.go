// Package session resolves the authenticated identity for a request. Sessions
// are opaque tokens minted at sign-in, stored in Redis with a TTL, and carried
// by a cookie. The middleware only extracts the token; the lookup happens when
// a pipeline asks for the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
)

// CookieName carries the session token between requests.
const CookieName = "wild_oasis_session"

const keyPrefix = "session:"

type contextKey struct{}

// Provider resolves the current session. A nil session with a nil error means
// the request is unauthenticated.
type Provider interface {
	Authenticate(ctx context.Context) (*model.Session, error)
}

// RedisStore is a Provider backed by Redis.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore constructs a RedisStore with the given session lifetime.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Create mints a new session token for a guest.
func (s *RedisStore) Create(ctx context.Context, guestID int64) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+token, guestID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Authenticate resolves the token carried by the request context into a
// Session, or nil when there is no live session.
func (s *RedisStore) Authenticate(ctx context.Context) (*model.Session, error) {
	token := TokenFromContext(ctx)
	if token == "" {
		return nil, nil
	}
	val, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("look up session: %w", err)
	}
	guestID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session record: %w", err)
	}
	return &model.Session{GuestID: guestID}, nil
}

// Destroy removes a session token. Destroying an unknown token is a no-op.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// TTL reports the configured session lifetime.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

// Middleware copies the session cookie's token into the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			r = r.WithContext(WithToken(r.Context(), c.Value))
		}
		next.ServeHTTP(w, r)
	})
}

// WithToken returns a context carrying a session token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKey{}, token)
}

// TokenFromContext returns the request's session token, or "".
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(contextKey{}).(string)
	return token
}

// SetCookie attaches a session token to the response.
func SetCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
