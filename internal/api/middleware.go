// catalog-service/internal/api/middleware.go
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ContextKey используется для ключей в контексте запроса.
type ContextKey string

// UserIDKey ключ для хранения ID пользователя в контексте.
const UserIDKey ContextKey = "userID"

// userIDFromContext возвращает ID пользователя или nil для анонимного запроса.
func userIDFromContext(ctx context.Context) *string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}

// AuthMiddleware читает bearer-токен, если он есть. Без заголовка запрос идёт дальше анонимно,
// с невалидным токеном - 401.
func (h *CatalogHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || h.tokens == nil {
			next.ServeHTTP(w, r)
			return
		}

		// Ожидаем токен в формате "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			h.logger.WarnContext(r.Context(), "Invalid Authorization header format")
			h.respondError(w, r, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		claims, err := h.tokens.Validate(parts[1])
		if err != nil {
			h.logger.WarnContext(r.Context(), "Invalid or expired token", slog.String("error", err.Error()))
			h.respondError(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if _, err := uuid.Parse(claims.UserID); err != nil {
			h.logger.WarnContext(r.Context(), "Token user_id is not a UUID", slog.String("userID", claims.UserID))
			h.respondError(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		h.logger.DebugContext(ctx, "Token validated successfully", slog.String("userID", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser пропускает только запросы, для которых AuthMiddleware установил пользователя.
func (h *CatalogHandler) RequireUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userIDFromContext(r.Context()) == nil {
			h.logger.WarnContext(r.Context(), "Authorization header missing", slog.String("path", r.URL.Path))
			h.respondError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}
		next(w, r)
	})
}

// RateLimiter - token bucket на каждый IP клиента.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
	logger    *slog.Logger
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создает лимитер; rps <= 0 отключает ограничение.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     3 * time.Minute,
		now:     time.Now,
		logger:  logger,
	}
}

// Allow сообщает, может ли клиент выполнить запрос сейчас.
func (l *RateLimiter) Allow(client string) bool {
	if l.rps <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.ttl {
		l.sweepLocked(now)
	}
	c, ok := l.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweepLocked удаляет клиентов, не появлявшихся дольше ttl. Вызывается не чаще раза в ttl.
func (l *RateLimiter) sweepLocked(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.ttl {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Middleware отвечает 429, когда клиент исчерпал лимит.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)
		if !l.Allow(client) {
			l.logger.WarnContext(r.Context(), "Rate limit exceeded", slog.String("client", client), slog.String("path", r.URL.Path))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
