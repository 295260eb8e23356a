package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"noteflow/dto"
	"noteflow/middleware"
	"noteflow/usecase"
	"noteflow/utils"
)

type NotesHandler struct {
	Notes *usecase.NotesService
}

func NewNotesHandler(notes *usecase.NotesService) *NotesHandler {
	return &NotesHandler{Notes: notes}
}

// List returns the caller's notes, most recently updated first.
func (h *NotesHandler) List(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	notes, err := h.Notes.ListNotes(c.Request.Context(), id)
	if err != nil {
		utils.InternalError(c, "Failed to list notes")
		return
	}
	utils.Success(c, gin.H{"notes": notes})
}

// Create validates and persists a new note for the caller.
func (h *NotesHandler) Create(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing title")
		return
	}

	note, err := h.Notes.CreateNote(c.Request.Context(), id, req.Title, req.Content, req.ImageURL)
	if err != nil {
		if errors.Is(err, usecase.ErrTitleRequired) {
			utils.BadRequest(c, "Missing title")
			return
		}
		utils.InternalError(c, "Failed to create note")
		return
	}

	middleware.NotesOperationsTotal.WithLabelValues("create").Inc()
	utils.Created(c, gin.H{"note": note})
}

// Update replaces a note's title, content and image wholesale.
func (h *NotesHandler) Update(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	noteID := c.Param("id")

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing title")
		return
	}

	note, err := h.Notes.UpdateNote(c.Request.Context(), id, noteID, req.Title, req.Content, req.ImageURL)
	if err != nil {
		if errors.Is(err, usecase.ErrTitleRequired) {
			utils.BadRequest(c, "Missing title")
			return
		}
		if usecase.IsNotFound(err) {
			utils.NotFound(c, "Note not found")
			return
		}
		utils.InternalError(c, "Failed to update note")
		return
	}

	middleware.NotesOperationsTotal.WithLabelValues("update").Inc()
	utils.Success(c, gin.H{"note": note})
}

// Delete removes an owned note.
func (h *NotesHandler) Delete(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	noteID := c.Param("id")

	if err := h.Notes.DeleteNote(c.Request.Context(), id, noteID); err != nil {
		if usecase.IsNotFound(err) {
			utils.NotFound(c, "Note not found")
			return
		}
		utils.InternalError(c, "Failed to delete note")
		return
	}

	middleware.NotesOperationsTotal.WithLabelValues("delete").Inc()
	utils.Success(c, gin.H{"message": "Note deleted successfully"})
}
