package handler

import (
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"noteflow/middleware"
	"noteflow/usecase"
	"noteflow/utils"
)

// CronHandler is the external trigger for the reminder batch. The job never
// schedules its own invocations.
type CronHandler struct {
	Reminders *usecase.ReminderService
	Secret    string
}

func NewCronHandler(reminders *usecase.ReminderService, secret string) *CronHandler {
	return &CronHandler{Reminders: reminders, Secret: secret}
}

func (h *CronHandler) authorized(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) == 1
}

// ProcessReminders runs one batch over all due reminders.
func (h *CronHandler) ProcessReminders(c *gin.Context) {
	if !h.authorized(c) {
		utils.Unauthorized(c, "Unauthorized")
		return
	}

	result, err := h.Reminders.ProcessDue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		if errors.Is(err, usecase.ErrBatchRunning) {
			utils.Conflict(c, "Reminder batch already running")
			return
		}
		utils.InternalError(c, "Reminder processing failed")
		return
	}

	middleware.RemindersProcessedTotal.WithLabelValues("processed").Add(float64(result.Processed))
	middleware.RemindersProcessedTotal.WithLabelValues("error").Add(float64(result.Errors))

	c.Header("X-Reminders-Total", strconv.Itoa(result.Total))
	utils.Success(c, result)
}
