package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
)

// NewHealthHandler registers GET /health
func NewHealthHandler(public *gin.RouterGroup, healthUC domain.HealthUsecase) {
	public.GET("/health", func(c *gin.Context) { health(c, healthUC) })
}

// health godoc
// @Summary      Health check
// @Description  Storage reachability plus the state of optional services (redis, clamav).
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func health(c *gin.Context, healthUC domain.HealthUsecase) {
	c.Header("Cache-Control", "no-store")
	status, err := healthUC.Check(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Success:   false,
			Message:   "Storage unavailable",
			Data:      status,
			RequestID: middleware.GetRequestID(c),
		})
		return
	}
	response.Success(c, http.StatusOK, "System operational", status)
}
