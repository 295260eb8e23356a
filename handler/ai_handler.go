package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"noteflow/dto"
	"noteflow/services"
	"noteflow/utils"
)

type AIHandler struct {
	Rewriter services.Rewriter
}

func NewAIHandler(rewriter services.Rewriter) *AIHandler {
	return &AIHandler{Rewriter: rewriter}
}

// Rewrite turns free-form note text into a structured professional outline.
func (h *AIHandler) Rewrite(c *gin.Context) {
	var req dto.RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		utils.BadRequest(c, "Text is required")
		return
	}

	text, err := h.Rewriter.Rewrite(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrRewriteUnconfigured) {
			utils.ServiceUnavailable(c, "AI is not configured")
			return
		}
		utils.BadGateway(c, "Failed to rewrite")
		return
	}

	utils.Success(c, dto.RewriteResponse{Text: text})
}
