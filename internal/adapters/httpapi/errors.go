package httpapi

import (
	"errors"
	"net/http"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusFor maps the governance error taxonomy onto HTTP status codes
func statusFor(err error) int {
	if errors.Is(err, domain.ErrProposalNotFound) || errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, domain.ErrTransferPending) {
		return http.StatusAccepted
	}
	switch domain.Category(err) {
	case domain.CategoryValidation:
		return http.StatusBadRequest
	case domain.CategoryState:
		return http.StatusConflict
	case domain.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error    string               `json:"error"`
	Category domain.ErrorCategory `json:"category,omitempty"`
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, errorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, errorResponse{Error: err.Error(), Category: domain.Category(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Category: domain.CategoryValidation})
}
