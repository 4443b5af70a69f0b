package shared

import (
	"errors"

	"github.com/ezlab-crm/internal/http/response"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MsgInternalError 服务端错误的统一提示，原始错误只写日志
const MsgInternalError = "internal server error"

// MappedError 定义业务错误到接口错误响应的映射关系。
// Message 为空时使用业务错误自身的文案。
type MappedError struct {
	Target  error
	Code    int
	Message string
}

// ServiceErrorRules 业务错误映射表
var ServiceErrorRules = []MappedError{
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest},
	{Target: service.ErrUsernameRequired, Code: response.CodeBadRequest},
	{Target: service.ErrPasswordRequired, Code: response.CodeBadRequest},
	{Target: service.ErrUsernameLength, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeBadRequest},
	{Target: service.ErrCustomerNameRequired, Code: response.CodeBadRequest},
	{Target: service.ErrProductNameRequired, Code: response.CodeBadRequest},
	{Target: service.ErrImageRequired, Code: response.CodeBadRequest},
	{Target: service.ErrTooManyImages, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidFileType, Code: response.CodeBadRequest},
	{Target: service.ErrFileTooLarge, Code: response.CodeBadRequest},
	{Target: service.ErrInvalidRole, Code: response.CodeBadRequest},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest},
	{Target: service.ErrOrderCancelled, Code: response.CodeBadRequest},

	{Target: service.ErrProductNotFound, Code: response.CodeNotFound},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound},
	{Target: service.ErrOrderItemNotFound, Code: response.CodeNotFound},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound},

	{Target: service.ErrDuplicateUsername, Code: response.CodeConflict},
	{Target: service.ErrSessionConflict, Code: response.CodeConflict},
	{Target: service.ErrProductInUse, Code: response.CodeConflict},

	{Target: service.ErrForbidden, Code: response.CodeForbidden},
	{Target: service.ErrSuperAdminProtected, Code: response.CodeForbidden},
	{Target: service.ErrAccountBlocked, Code: response.CodeForbidden},

	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized},
	{Target: service.ErrTokenInvalid, Code: response.CodeUnauthorized},
	{Target: service.ErrTokenExpired, Code: response.CodeUnauthorized},
	{Target: service.ErrSessionSuperseded, Code: response.CodeUnauthorized, Message: "newer login detected"},
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// ResolveServiceError 查找业务错误对应的响应码与文案，未命中返回 false
func ResolveServiceError(err error) (int, string, bool) {
	for _, rule := range ServiceErrorRules {
		if errors.Is(err, rule.Target) {
			msg := rule.Message
			if msg == "" {
				msg = rule.Target.Error()
			}
			return rule.Code, msg, true
		}
	}
	return 0, "", false
}

// RespondServiceError 按映射表返回业务错误，未知错误按 500 处理并记录日志
func RespondServiceError(c *gin.Context, err error) {
	if code, msg, ok := ResolveServiceError(err); ok {
		RespondError(c, code, msg, nil)
		return
	}
	RespondError(c, response.CodeInternal, MsgInternalError, err)
}
