package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/railzwaylabs/solarquote/internal/authorization/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
)

// retryAfterSeconds is advertised on catalog outages.
const retryAfterSeconds = "5"

var (
	ErrUnauthorized   = authdomain.ErrUnauthorized
	ErrForbidden      = authdomain.ErrForbidden
	errInvalidRequest = errors.New("invalid_request")
)

type requestError struct {
	cause error
}

func (e *requestError) Error() string { return "invalid_request: " + e.cause.Error() }
func (e *requestError) Unwrap() error { return errInvalidRequest }

func invalidRequestError(cause error) error {
	return &requestError{cause: cause}
}

// AbortWithError writes the error envelope for err and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	status, body := describeError(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", retryAfterSeconds)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}

func describeError(err error) (int, ErrorBody) {
	var validation *apperr.ValidationError
	var notFound *apperr.NotFoundError
	var unavailable *apperr.CatalogUnavailableError
	var badRequest *requestError

	switch {
	case errors.As(err, &validation):
		code := "validation_failed"
		if validation.Field != "" {
			code = "invalid_" + validation.Field
		}
		return http.StatusBadRequest, ErrorBody{Code: code, Message: validation.Reason, Field: validation.Field}
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, ErrorBody{Code: "invalid_request", Message: badRequest.cause.Error()}
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorBody{Code: notFound.Kind + "_not_found", Message: notFound.Error()}
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, ErrorBody{
			Code:      "catalog_unavailable",
			Message:   "pricing data is temporarily unavailable",
			Retryable: unavailable.Retryable(),
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, ErrorBody{Code: "unauthorized", Message: "a valid api key is required"}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, ErrorBody{Code: "forbidden", Message: "this key may not access the resource"}
	}
	return http.StatusInternalServerError, ErrorBody{Code: "internal_error", Message: "internal server error"}
}
