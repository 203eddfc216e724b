package handlers

import (
	"net/http"

	"busbooking/internal/domain"
	"busbooking/internal/http/middleware"
	"busbooking/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request. Error carries the
// machine-readable reason clients branch on.
type ErrorResponse struct {
	Error     domain.Reason `json:"error"`
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, reason domain.Reason, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     reason,
		Code:      code,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Internal errors
// never expose their cause.
func RespondDomainError(c *gin.Context, err error) {
	reason := domain.ReasonOf(err)
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, reason, "validation_error", err.Error())
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, reason, "unauthorized", err.Error())
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, reason, "forbidden", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, reason, "not_found", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, reason, "conflict", err.Error())
	case reason == domain.ReasonCodeSpaceExhausted:
		respondError(c, http.StatusInternalServerError, reason, "internal_error", "booking failed, please try again")
	default:
		respondError(c, http.StatusInternalServerError, domain.ReasonServerError, "internal_error", "server error")
	}
}

// fail logs server-side failures with their cause before responding.
func (h *Handler) fail(c *gin.Context, module, action string, err error) {
	if !domain.IsValidation(err) && !domain.IsNotFound(err) && !domain.IsConflict(err) && !domain.IsUnauthorized(err) && !domain.IsForbidden(err) {
		utils.OrNop(h.Log).Error("request failed",
			zap.String("module", module),
			zap.String("action", action),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}
	RespondDomainError(c, err)
}
