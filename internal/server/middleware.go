package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	authdomain "github.com/railzwaylabs/solarquote/internal/authorization/domain"
	"github.com/railzwaylabs/solarquote/internal/observability"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderAPIKey    = "X-API-Key"

	contextRequestIDKey = "request_id"
	contextPrincipalKey = "principal"
)

type principalCtxKey struct{}

// RequestID propagates the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(started)),
			zap.String("request_id", c.GetString(contextRequestIDKey)),
		}
		if p, ok := PrincipalFrom(c.Request.Context()); ok {
			fields = append(fields, zap.String("key_id", p.KeyID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}

func ObserveRequests(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(started))
	}
}

// APIKeyRequired authenticates the caller and checks the role policy for the
// requested path. With auth disabled every caller acts as an analyst.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.cfg.Auth.Enabled || s.authSvc == nil {
			setPrincipal(c, &authdomain.Principal{Name: "local", Role: authdomain.RoleAnalyst})
			c.Next()
			return
		}

		key := apiKeyFromRequest(c)
		if key == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.authSvc.Authenticate(c.Request.Context(), key)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		allowed, err := s.authSvc.Authorize(principal.Role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !allowed {
			AbortWithError(c, ErrForbidden)
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

func apiKeyFromRequest(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader(HeaderAPIKey)); key != "" {
		return key
	}
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func setPrincipal(c *gin.Context, p *authdomain.Principal) {
	c.Set(contextPrincipalKey, p)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), principalCtxKey{}, p))
}

func PrincipalFrom(ctx context.Context) (*authdomain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*authdomain.Principal)
	return p, ok && p != nil
}
