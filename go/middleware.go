package pawhavenserver

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Apurer/pawhaven-api/internal/platform/auth"
	apierrors "github.com/Apurer/pawhaven-api/internal/shared/errors"
)

const principalKey = "pawhaven.principal"

// TokenVerifier turns a bearer token into the calling principal.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// Authenticate rejects requests without a valid bearer token and stores the principal on the context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication is not configured"))
			return
		}
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("bearer token required"))
			return
		}
		principal, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail(auth.ErrInvalidToken.Error()))
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// LimitBody caps the request body at limit bytes. Declared oversize bodies are refused before any read.
func LimitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			respondProblem(c, bodyTooLarge(limit))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func bodyTooLarge(limit int64) apierrors.ProblemDetail {
	return apierrors.ErrPayloadTooLarge.WithDetail(fmt.Sprintf("request body exceeds %d bytes", limit))
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok || !principal.Admin() {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("admin role required"))
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (auth.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}

// mustPrincipal is used by handlers mounted behind Authenticate.
func mustPrincipal(c *gin.Context) auth.Principal {
	principal, _ := principalFrom(c)
	return principal
}

// RateLimiter hands out one token bucket per caller.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idle     time.Duration
	visitors map[string]*visitor
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows limit events per second with the given burst for each caller.
func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    limit,
		burst:    burst,
		idle:     10 * time.Minute,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow reports whether key may proceed now.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.visitors, k)
		}
	}
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware keys callers by principal, falling back to the client address.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if principal, ok := principalFrom(c); ok {
			key = principal.UserID
		}
		if !l.Allow(key) {
			respondProblem(c, apierrors.ErrRateLimited.
				WithDetail("payment requests are rate limited").
				WithRetryAfter(time.Second))
			return
		}
		c.Next()
	}
}
