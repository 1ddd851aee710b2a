package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"

	"github.com/desertthunder/tunebase/internal/access"
)

type ctxKey struct{}

// IdentityFrom returns the caller resolved by [Authenticate]; anonymous when absent.
func IdentityFrom(ctx context.Context) access.Identity {
	id, _ := ctx.Value(ctxKey{}).(access.Identity)
	return id
}

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id access.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Authenticate resolves an optional bearer token into the request identity.
// A request without a token proceeds anonymously; a bad token is rejected.
func Authenticate(resolver *access.Resolver, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				writeError(logger, w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequestLogger logs one line per request through logger.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}
			switch {
			case status >= 500:
				logger.Error("request", kv...)
			case status >= 400:
				logger.Warn("request", kv...)
			default:
				logger.Debug("request", kv...)
			}
		})
	}
}

const (
	// limiterIdle is how long a client may go unseen before its bucket is dropped.
	limiterIdle = 3 * time.Minute
	// limiterHighWater is the map size that forces a sweep between idle sweeps.
	limiterHighWater = 1024
)

type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

// clientLimiter hands out one token bucket per client address. Buckets that
// have gone idle or refilled completely carry no state and are swept.
type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*visitor
	highWater int
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit:     rate.Limit(perSecond),
		burst:     burst,
		clients:   make(map[string]*visitor),
		highWater: limiterHighWater,
		now:       time.Now,
	}
}

func (c *clientLimiter) get(client string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= limiterIdle || len(c.clients) >= c.highWater {
		c.sweep(now)
	}

	v, ok := c.clients[client]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[client] = v
	}
	v.seen = now
	return v.limiter
}

// sweep drops idle and full buckets, then moves the high-water mark so that
// a map of busy clients is not rescanned on every request.
func (c *clientLimiter) sweep(now time.Time) {
	for client, v := range c.clients {
		if now.Sub(v.seen) >= limiterIdle || v.limiter.TokensAt(now) >= float64(c.burst) {
			delete(c.clients, client)
		}
	}
	c.lastSweep = now
	c.highWater = max(limiterHighWater, 2*len(c.clients))
}

// RateLimit rejects clients exceeding perSecond requests with 429.
// A non-positive rate disables limiting.
func RateLimit(perSecond float64, burst int) Middleware {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := newClientLimiter(perSecond, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.get(clientAddr(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				_ = writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
					Kind:    "RATE_LIMITED",
					Message: "too many requests",
				}})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr is the remote host without its port; RealIP has already applied forwarding headers.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
