package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"noteflow/middleware"
	"noteflow/services"
	"noteflow/usecase"
	"noteflow/utils"
)

type ExportHandler struct {
	Notes *usecase.NotesService
}

func NewExportHandler(notes *usecase.NotesService) *ExportHandler {
	return &ExportHandler{Notes: notes}
}

// ExportPDF renders an owned note as a downloadable PDF.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	noteID := c.Param("id")

	note, err := h.Notes.GetNote(c.Request.Context(), id, noteID)
	if err != nil {
		if usecase.IsNotFound(err) {
			utils.NotFound(c, "Note not found")
			return
		}
		utils.InternalError(c, "Failed to load note")
		return
	}

	pdf, err := services.RenderNotePDF(note)
	if err != nil {
		utils.InternalError(c, "Failed to render PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", note.Title+".pdf"))
	c.Data(200, "application/pdf", pdf)
}
