package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/service"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
	"github.com/noah-isme/attendance-tracker/pkg/response"
)

// ScheduleHandler handles weekly schedule endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Week godoc
// @Summary Full weekly schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	week, err := h.service.Week(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week)
}

// AddEntry godoc
// @Summary Add schedule entry to a weekday
// @Tags Schedule
// @Accept json
// @Produce json
// @Param day path string true "Weekday name"
// @Param payload body service.AddScheduleEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /schedule/{day}/entries [post]
func (h *ScheduleHandler) AddEntry(c *gin.Context) {
	day, err := models.ParseWeekday(c.Param("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown weekday"))
		return
	}
	var req service.AddScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.AddEntry(c.Request.Context(), day, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// RemoveEntry godoc
// @Summary Remove schedule entry
// @Tags Schedule
// @Produce json
// @Param day path string true "Weekday name"
// @Param id path string true "Entry ID"
// @Success 204
// @Router /schedule/{day}/entries/{id} [delete]
func (h *ScheduleHandler) RemoveEntry(c *gin.Context) {
	day, err := models.ParseWeekday(c.Param("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown weekday"))
		return
	}
	if err := h.service.RemoveEntry(c.Request.Context(), day, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Day godoc
// @Summary Scheduled entries for a calendar date
// @Tags Schedule
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule/day [get]
func (h *ScheduleHandler) Day(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingSelection, "date is required"))
		return
	}
	entries, err := h.service.EntriesForDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// Markable godoc
// @Summary Scheduled entries paired with existing marks for a date
// @Tags Attendance
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/markable [get]
func (h *ScheduleHandler) Markable(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingSelection, "date is required"))
		return
	}
	entries, err := h.service.MarkableForDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}
