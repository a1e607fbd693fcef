package v1

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// eventBuffer is how many changes a slow SSE client may lag before events are dropped
const eventBuffer = 32

type AdminHandler struct {
	exportUC  domain.ExportUsecase
	feed      domain.ChangeFeed
	heartbeat time.Duration
}

func NewAdminHandler(admin *gin.RouterGroup, exportUC domain.ExportUsecase, feed domain.ChangeFeed, heartbeat time.Duration) {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	handler := &AdminHandler{exportUC: exportUC, feed: feed, heartbeat: heartbeat}

	admin.GET("/export", handler.Export)
	admin.GET("/snapshot", handler.Snapshot)
	admin.GET("/events", handler.Events)
}

// Export godoc
// @Summary      Export content workbook
// @Description  Downloads every collection as an XLSX workbook, one sheet per collection plus Profile.
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /admin/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	data, fileName, err := h.exportUC.Workbook(c.Request.Context())
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Snapshot godoc
// @Summary      Export content as JSON
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /admin/snapshot [get]
func (h *AdminHandler) Snapshot(c *gin.Context) {
	response.Success(c, http.StatusOK, "OK", h.exportUC.Snapshot(c.Request.Context()))
}

// Events godoc
// @Summary      Content change stream
// @Description  Server-Sent Events: one "change" event per store write or reload, "ping" while idle.
// @Tags         admin
// @Produce      text/event-stream
// @Success      200  {object}  domain.ChangeEvent
// @Router       /admin/events [get]
func (h *AdminHandler) Events(c *gin.Context) {
	events := make(chan domain.ChangeEvent, eventBuffer)
	unsubscribe := h.feed.Subscribe(func(ev domain.ChangeEvent) {
		// Publish runs on the writer's goroutine; never block it on a slow client
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.SSEvent("ready", gin.H{"at": time.Now().UTC()})
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent("change", ev)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
