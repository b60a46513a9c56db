// Package api exposes the work logger over HTTP.
package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/worklog/internal/calendar"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/export"
	"github.com/alexanderramin/worklog/internal/service"
)

// Handler serves the work logger endpoints.
type Handler struct {
	logger service.WorkLogger
	layout string
	now    func() time.Time
}

// NewHandler formats defaulted timestamps with layout, the same layout the
// work logger parses.
func NewHandler(logger service.WorkLogger, layout string) *Handler {
	return &Handler{logger: logger, layout: layout, now: time.Now}
}

// Enter records an entry.
// POST /api/v1/enter {"timestamp": "2024-03-04 09:00"}
func (h *Handler) Enter(c *gin.Context) {
	var req TimestampRequest
	if !h.bindOptional(c, &req) {
		return
	}

	session, err := h.logger.Enter(c.Request.Context(), h.timestampOrNow(req.Timestamp))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, newSessionResponse(session))
}

// Exit records an exit, by slot or by session id.
// POST /api/v1/exit {"timestamp": "2024-03-04 17:30", "id": ""}
func (h *Handler) Exit(c *gin.Context) {
	var req TimestampRequest
	if !h.bindOptional(c, &req) {
		return
	}

	ts := h.timestampOrNow(req.Timestamp)
	var (
		session *domain.WorkSession
		err     error
	)
	if req.ID != "" {
		session, err = h.logger.ExitSession(c.Request.Context(), req.ID, ts)
	} else {
		session, err = h.logger.Exit(c.Request.Context(), ts)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, newSessionResponse(session))
}

// Report generates the monthly report.
// POST /api/v1/report {"date": "2024-03-15", "skip_email": false, "format": "csv"}
func (h *Handler) Report(c *gin.Context) {
	var req ReportRequest
	if !h.bindOptional(c, &req) {
		return
	}

	opts := service.ReportOptions{SkipEmail: req.SkipEmail}
	if req.Format != "" {
		f, err := export.ParseFormat(req.Format)
		if err != nil {
			fail(c, http.StatusBadRequest, CodeBadRequest, "invalid format", err.Error())
			return
		}
		opts.Format = f
	}

	date := req.Date
	if date == "" {
		date = calendar.DateKey(h.now())
	}

	result, err := h.logger.GenerateReport(c.Request.Context(), date, opts)
	if err != nil {
		status, code, message := classify(err)
		_ = c.Error(err)
		resp := Response{Code: code, Message: message, Details: err.Error()}
		if result != nil {
			resp.Data = newReportResponse(result)
		}
		c.JSON(status, resp)
		return
	}
	ok(c, http.StatusOK, newReportResponse(result))
}

// ListSessions lists the sessions of the month containing date.
// GET /api/v1/sessions?date=2024-03-15
func (h *Handler) ListSessions(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = calendar.DateKey(h.now())
	}

	sessions, err := h.logger.ListMonth(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, newSessionList(sessions))
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindOptional accepts an empty body as the zero request.
func (h *Handler) bindOptional(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, CodeBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

func (h *Handler) timestampOrNow(ts string) string {
	if ts != "" {
		return ts
	}
	return h.now().Format(h.layout)
}
