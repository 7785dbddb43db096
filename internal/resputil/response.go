package resputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pmo-lab/projecthub/pkg/apperror"
)

// Response is the envelope for every API payload.
type Response[T any] struct {
	Code ErrorCode `json:"code"`
	Data T         `json:"data"`
	Msg  string    `json:"msg"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response[any]{
		Code: OK,
		Data: data,
		Msg:  "",
	})
}

// HTTPError responds with an explicit HTTP status.
func HTTPError(c *gin.Context, statusCode int, msg string, errorCode ErrorCode) {
	c.JSON(statusCode, Response[any]{
		Code: errorCode,
		Data: nil,
		Msg:  msg,
	})
}

// Error responds 200 with an error code in the envelope, for failures the
// frontend handles in-band.
func Error(c *gin.Context, msg string, errorCode ErrorCode) {
	HTTPError(c, http.StatusOK, msg, errorCode)
}

func BadRequestError(c *gin.Context, msg string) {
	HTTPError(c, http.StatusBadRequest, msg, InvalidRequest)
}

// WrapError maps the apperror taxonomy onto transport responses. Handlers
// call this for any error coming out of the policy, workflow or store layers.
func WrapError(c *gin.Context, err error) {
	var (
		notFound   *apperror.NotFoundError
		transition *apperror.InvalidTransitionError
		conflict   *apperror.ConflictError
	)
	switch {
	case errors.Is(err, apperror.ErrAuthentication):
		HTTPError(c, http.StatusUnauthorized, err.Error(), TokenInvalid)
	case errors.Is(err, apperror.ErrAuthorization):
		HTTPError(c, http.StatusForbidden, err.Error(), UserNotAllowed)
	case errors.Is(err, apperror.ErrValidation):
		HTTPError(c, http.StatusBadRequest, err.Error(), ValidationFailed)
	case errors.As(err, &notFound):
		HTTPError(c, http.StatusNotFound, err.Error(), NotFound)
	case errors.As(err, &transition):
		HTTPError(c, http.StatusConflict, err.Error(), InvalidTransition)
	case errors.As(err, &conflict):
		HTTPError(c, http.StatusConflict, err.Error(), WriteConflict)
	default:
		Error(c, err.Error(), NotSpecified)
	}
}
