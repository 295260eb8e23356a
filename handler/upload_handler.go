package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"noteflow/dto"
	"noteflow/services"
	"noteflow/utils"
)

// maxUploadSize caps attachment payloads at 5 MiB.
const maxUploadSize = 5 << 20

type UploadHandler struct {
	Uploader services.Uploader
}

func NewUploadHandler(uploader services.Uploader) *UploadHandler {
	return &UploadHandler{Uploader: uploader}
}

// Upload stores an image attachment and returns its URL. Only the URL ends
// up on a note; the bytes live in object storage.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "No file provided")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		utils.BadRequest(c, "Only image files are allowed")
		return
	}
	if fileHeader.Size > maxUploadSize {
		utils.BadRequest(c, "File size must be less than 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalError(c, "Failed to read file")
		return
	}
	defer file.Close()

	url, err := h.Uploader.Upload(c.Request.Context(), file, fileHeader.Filename, contentType)
	if err != nil {
		utils.BadGateway(c, "Failed to upload image")
		return
	}

	utils.Success(c, dto.UploadResponse{ImageURL: url})
}
