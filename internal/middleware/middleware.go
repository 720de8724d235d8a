package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/auth"
	"github.com/gearbox-rentals/service-rental/internal/domain"
	"github.com/gearbox-rentals/service-rental/internal/observability"
	"github.com/gearbox-rentals/service-rental/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxKeyUserID    = "auth.user_id"
	ctxKeyUserRole  = "auth.user_role"
	ctxKeyRequestID = "request_id"
)

// RecoveryMiddleware recovers from handler panics and logs them with the
// request ID before returning a redacted 500.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(ctxKeyRequestID)),
		)
		response.Error(c, nil)
		c.Abort()
	})
}

// LoggerMiddleware emits one structured log line per request.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxKeyRequestID)),
		)
	}
}

// RequestIDMiddleware attaches a request ID, reusing the caller's
// X-Request-ID when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// CORSMiddleware allows browser clients to reach the API.
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	return cors.New(cfg)
}

// SecurityHeadersMiddleware sets baseline security headers on every response.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// MetricsMiddleware records per-request prometheus counters and latency.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// AuthMiddleware verifies the bearer token and stores the actor identity
// on the request context. Core operations receive the actor explicitly
// from handlers; nothing reads ambient auth state below this layer.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		token := header
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role does not match.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual, ok := GetUserRole(c)
		if !ok || actual != role {
			response.Error(c, roleError(role))
			c.Abort()
			return
		}
		c.Next()
	}
}

func roleError(role string) error {
	return domain.NewForbiddenError(fmt.Sprintf("operation requires the %s role", role))
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserRole returns the authenticated user's role from the request context.
func GetUserRole(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyUserRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
