package api

import (
	"net/http"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: GetRequestID(c),
	})
}

// HTTPStatus maps a domain error kind to its HTTP status.
func HTTPStatus(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindExhausted:
		return http.StatusConflict
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

// RespondDomainError writes err as a JSON error. Storage failures hide
// their cause from the client and are logged instead.
func RespondDomainError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status == http.StatusServiceUnavailable {
		_ = c.Error(err)
		respondError(c, status, domain.ErrStorageFailure.Code, "storage unavailable, outcome unknown")
		return
	}
	respondError(c, status, domain.CodeOf(err), err.Error())
}
