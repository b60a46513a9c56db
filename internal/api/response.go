package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/service"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error codes carried in Response.Code. Zero means success.
const (
	CodeOK               = 0
	CodeBadRequest       = 40000
	CodeParse            = 40001
	CodeNegativeDuration = 40002
	CodeNotFound         = 40401
	CodeAmbiguous        = 40901
	CodeSessionClosed    = 40902
	CodePersistence      = 50001
	CodeExport           = 50002
	CodeInternal         = 50000
)

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: CodeOK, Message: "success", Data: data})
}

func fail(c *gin.Context, status, code int, message, details string) {
	c.JSON(status, Response{Code: code, Message: message, Details: details})
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, code, message := classify(err)
	fail(c, status, code, message, err.Error())
}

func classify(err error) (status, code int, message string) {
	switch {
	case errors.Is(err, calendar.ErrParse):
		return http.StatusBadRequest, CodeParse, "invalid timestamp"
	case errors.Is(err, domain.ErrNegativeDuration):
		return http.StatusBadRequest, CodeNegativeDuration, "exit is before entry"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, "no matching session"
	case errors.Is(err, repository.ErrAmbiguousMatch):
		return http.StatusConflict, CodeAmbiguous, "more than one open session matches"
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict, CodeSessionClosed, "session already closed"
	case errors.Is(err, service.ErrExport):
		return http.StatusInternalServerError, CodeExport, "report export failed"
	case errors.Is(err, repository.ErrPersistence):
		return http.StatusInternalServerError, CodePersistence, "store unavailable"
	default:
		return http.StatusInternalServerError, CodeInternal, "internal error"
	}
}
