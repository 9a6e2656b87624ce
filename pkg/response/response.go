package response

import (
	"errors"
	"net/http"

	appErr "casino-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
	Msg  string      `json:"msg"`
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data, "")
}

func SuccessWithMsg(c *gin.Context, data interface{}, msg string) {
	JSON(c, http.StatusOK, data, msg)
}

func Error(c *gin.Context, status int, msg string) {
	JSON(c, status, gin.H{}, msg)
}

// Fail writes err with the status mapped from its sentinel.
func Fail(c *gin.Context, err error) {
	Error(c, StatusFor(err), err.Error())
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, appErr.ErrInvalidBet),
		errors.Is(err, appErr.ErrResetNotConfirmed),
		errors.Is(err, appErr.ErrNoGameSelected):
		return http.StatusBadRequest
	case errors.Is(err, appErr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, appErr.ErrUnknownGame),
		errors.Is(err, appErr.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErr.ErrInvalidAction),
		errors.Is(err, appErr.ErrRoundInProgress),
		errors.Is(err, appErr.ErrDoubleNotAllowed),
		errors.Is(err, appErr.ErrDeckExhausted):
		return http.StatusConflict
	case errors.Is(err, appErr.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func JSON(c *gin.Context, status int, data interface{}, msg string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Body{
		Code: status,
		Data: data,
		Msg:  msg,
	})
}
