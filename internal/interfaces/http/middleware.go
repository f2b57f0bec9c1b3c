package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ttchat/internal/interfaces"
	"ttchat/internal/usecases"
)

const tenantIDKey = "tenant_id"

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Middleware struct {
	auth         *usecases.AuthUsecase
	tenants      interfaces.TenantStore
	logger       *zap.Logger
	rateLimiters map[string]*clientLimiter
	mu           sync.Mutex
}

func NewMiddleware(auth *usecases.AuthUsecase, tenants interfaces.TenantStore, logger *zap.Logger) *Middleware {
	m := &Middleware{
		auth:         auth,
		tenants:      tenants,
		logger:       logger,
		rateLimiters: make(map[string]*clientLimiter),
	}
	go m.cleanupLimiters()
	return m
}

// AuthRequired validates the bearer token and checks the tenant still
// exists before letting the request through.
func (m *Middleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		tenantID, err := m.auth.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
			return
		}

		tenant, err := m.tenants.GetByID(c.Request.Context(), tenantID)
		if err != nil {
			m.logger.Error("auth tenant lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if tenant == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
			return
		}

		c.Set(tenantIDKey, tenant.ID)
		c.Next()
	}
}

// RateLimitPerClient throttles unauthenticated widget traffic keyed by
// client address. Session ids are caller-chosen on this endpoint and
// must not select the bucket.
func (m *Middleware) RateLimitPerClient(r rate.Limit, b int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		m.mu.Lock()
		cl, exists := m.rateLimiters[key]
		if !exists {
			cl = &clientLimiter{limiter: rate.NewLimiter(r, b)}
			m.rateLimiters[key] = cl
		}
		cl.lastSeen = time.Now()
		m.mu.Unlock()

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// evictStaleLimiters drops buckets idle longer than maxIdle.
func (m *Middleware) evictStaleLimiters(maxIdle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, cl := range m.rateLimiters {
		if now.Sub(cl.lastSeen) > maxIdle {
			delete(m.rateLimiters, key)
		}
	}
}

func (m *Middleware) cleanupLimiters() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		m.evictStaleLimiters(10 * time.Minute)
	}
}

// RequestLogger logs each request with latency and status.
func (m *Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		m.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// SecurityHeaders adds security headers to prevent common attacks.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// RequestSizeLimiter caps request body size.
func RequestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func tenantID(c *gin.Context) string {
	return c.GetString(tenantIDKey)
}
