package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
)

// maxUploadBody is the largest policy (video) plus room for the multipart envelope
const maxUploadBody = 101 << 20

type UploadHandler struct {
	uploadUC domain.UploadUsecase
}

// NewUploadHandler registers POST /upload on a session guarded group
func NewUploadHandler(protected *gin.RouterGroup, uploadUC domain.UploadUsecase, limit gin.HandlerFunc) {
	handler := &UploadHandler{uploadUC: uploadUC}
	protected.POST("/upload", withLimit(limit, handler.Upload)...)
}

// Upload godoc
// @Summary      Upload a media file
// @Description  Validates size, extension and sniffed content type for the upload type, then stores the file.
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "File"
// @Param        type       formData  string  true   "image, video, document, resource or audio"
// @Param        projectId  formData  string  false  "Owning item ID"
// @Success      200        {object}  response.UploadResponse
// @Failure      400        {object}  response.Response
// @Failure      401        {object}  response.Response
// @Failure      413        {object}  response.Response
// @Failure      415        {object}  response.Response
// @Router       /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, apperror.PayloadTooLarge("File is too large"))
			return
		}
		h.fail(c, apperror.BadRequest("No file provided"))
		return
	}

	uploadType := strings.TrimSpace(c.PostForm("type"))
	if uploadType == "" {
		h.fail(c, apperror.BadRequest("Upload type is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, apperror.BadRequest("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	result, err := h.uploadUC.Upload(c.Request.Context(), domain.UploadRequest{
		FileName:     fileHeader.Filename,
		DeclaredMIME: fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      file,
		Type:         uploadType,
		ProjectID:    strings.TrimSpace(c.PostForm("projectId")),
		IP:           c.ClientIP(),
		RequestID:    middleware.GetRequestID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Upload(c, http.StatusOK, result)
}

// fail writes upload errors with the message in both message and error, where
// upload clients look for it
func (h *UploadHandler) fail(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code >= http.StatusInternalServerError {
		c.Error(err)
		return
	}
	response.Error(c, appErr.Code, appErr.Message, appErr.Message)
}
