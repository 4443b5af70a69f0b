package public

import (
	handlershared "github.com/ezlab-crm/internal/http/handlers/shared"
	"github.com/ezlab-crm/internal/http/response"

	"github.com/gin-gonic/gin"
)

const msgInvalidBody = "invalid request body"

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetUserID(c)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParseIDParam(c, name)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}

func respondBadBody(c *gin.Context, err error) {
	handlershared.RequestLog(c).Debugw("request_body_invalid", "error", err)
	response.BadRequest(c, msgInvalidBody)
}
