package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ezlab-crm/internal/authz"
	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/constants"
	handlershared "github.com/ezlab-crm/internal/http/handlers/shared"
	"github.com/ezlab-crm/internal/http/response"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// maxRequestIDLength 超长的外部请求 ID 会被替换
const maxRequestIDLength = 64

var defaultCORSHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Authorization",
	"X-Requested-With",
	requestIDHeader,
}

type corsPolicy struct {
	origins     []string
	wildcard    bool
	credentials bool
	methods     string
	headers     string
	maxAge      string
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	policy := corsPolicy{
		credentials: cfg.AllowCredentials,
		methods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		headers:     strings.Join(defaultCORSHeaders, ", "),
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			policy.wildcard = true
			continue
		}
		if origin != "" {
			policy.origins = append(policy.origins, origin)
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		policy.wildcard = true
	}
	if len(cfg.AllowedMethods) > 0 {
		policy.methods = strings.Join(cfg.AllowedMethods, ", ")
	}
	if len(cfg.AllowedHeaders) > 0 {
		policy.headers = strings.Join(cfg.AllowedHeaders, ", ")
	}
	if cfg.MaxAge > 0 {
		policy.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return policy
}

// allowOrigin 返回应写入 Access-Control-Allow-Origin 的值，空串表示不放行。
// 携带凭证时不能回写 *，改为回显请求来源。
func (p corsPolicy) allowOrigin(origin string) string {
	if p.wildcard {
		if p.credentials && origin != "" {
			return origin
		}
		return "*"
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range p.origins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// CORSMiddleware 跨域中间件，预检请求直接返回 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)
	return func(c *gin.Context) {
		header := c.Writer.Header()
		if allowed := policy.allowOrigin(c.GetHeader("Origin")); allowed != "" {
			header.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if policy.credentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Methods", policy.methods)
		header.Set("Access-Control-Allow-Headers", policy.headers)
		if policy.maxAge != "" {
			header.Set("Access-Control-Max-Age", policy.maxAge)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware 透传或生成 X-Request-ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 访问日志，5xx 记 error，4xx 记 warn
func LoggerMiddleware(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.L()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("uri", c.Request.URL.RequestURI()),
			zap.Int("status", status),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= http.StatusInternalServerError:
			base.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			base.Warn("http_request", fields...)
		default:
			base.Info("http_request", fields...)
		}
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// SessionAuthMiddleware Bearer 令牌鉴权中间件，校验通过后写入 user_id 与 user_role
func SessionAuthMiddleware(guard *service.SessionGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if guard == nil {
			logger.Errorw("session_guard_unavailable")
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if strings.TrimSpace(authHeader) == "" {
			response.Unauthorized(c, "authorization header missing")
			c.Abort()
			return
		}
		tokenString, ok := service.BearerToken(authHeader)
		if !ok {
			response.Unauthorized(c, "authorization header must be Bearer <token>")
			c.Abort()
			return
		}

		identity, err := guard.Authenticate(tokenString)
		if err != nil {
			handlershared.RespondServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextUserID, identity.UserID)
		c.Set(constants.ContextUserRole, identity.Role)
		c.Set(constants.ContextUsername, identity.Username)
		c.Next()
	}
}

// AdminOnly 按角色判定对资源的写权限，需放在 SessionAuthMiddleware 之后
func AdminOnly(authzService *authz.Service, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			response.Forbidden(c, "forbidden")
			c.Abort()
			return
		}
		role := handlershared.GetUserRole(c)
		if role == "" {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		allowed, err := authzService.Authorize(role, resource, authz.ActionWrite)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"role", role,
				"resource", resource,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Error(c, response.CodeInternal, handlershared.MsgInternalError)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", resource,
			)
			response.Forbidden(c, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
