package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"noteflow/dto"
	"noteflow/middleware"
	"noteflow/usecase"
	"noteflow/utils"
)

type ReminderHandler struct {
	Notes *usecase.NotesService
}

func NewReminderHandler(notes *usecase.NotesService) *ReminderHandler {
	return &ReminderHandler{Notes: notes}
}

// Set schedules a reminder on an owned note.
func (h *ReminderHandler) Set(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	noteID := c.Param("id")

	var req dto.SetReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Reminder date is required")
		return
	}

	note, err := h.Notes.SetReminder(c.Request.Context(), id, noteID, req.Reminder)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReminderRequired), errors.Is(err, usecase.ErrReminderInPast):
			utils.BadRequest(c, err.Error())
		case usecase.IsNotFound(err):
			utils.NotFound(c, "Note not found")
		default:
			utils.InternalError(c, "Failed to set reminder")
		}
		return
	}

	middleware.NotesOperationsTotal.WithLabelValues("reminder_set").Inc()
	utils.Success(c, gin.H{"reminder": note.Reminder})
}

// Cancel clears a scheduled reminder; no notification will ever fire for it.
func (h *ReminderHandler) Cancel(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	noteID := c.Param("id")

	if _, err := h.Notes.CancelReminder(c.Request.Context(), id, noteID); err != nil {
		if usecase.IsNotFound(err) {
			utils.NotFound(c, "Note not found")
			return
		}
		utils.InternalError(c, "Failed to remove reminder")
		return
	}

	middleware.NotesOperationsTotal.WithLabelValues("reminder_cancel").Inc()
	utils.Success(c, gin.H{"message": "Reminder removed"})
}
