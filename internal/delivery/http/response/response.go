package response

import (
	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/domain"
)

// Response standardizes the API JSON response
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     any    `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// UploadResponse keeps url and fileName at the top level, where upload
// clients expect them
type UploadResponse struct {
	Success     bool   `json:"success"`
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, err any) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     err,
		RequestID: requestID(c),
	})
}

// Upload sends the flattened upload result
func Upload(c *gin.Context, code int, res *domain.UploadResult) {
	c.JSON(code, UploadResponse{
		Success:     true,
		URL:         res.URL,
		FileName:    res.FileName,
		Size:        res.Size,
		ContentType: res.ContentType,
		Width:       res.Width,
		Height:      res.Height,
		RequestID:   requestID(c),
	})
}
