package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	Content        *domain.ContentUsecases
	UploadUC       domain.UploadUsecase
	RelayUC        domain.RelayUsecase
	ExportUC       domain.ExportUsecase
	HealthUC       domain.HealthUsecase
	Feed           domain.ChangeFeed
	RateLimiter    *middleware.RateLimiter
	SecurityLogger *security.SecurityLogger
	Config         *config.Config
	// SSE keepalive interval; zero uses the handler default
	EventsHeartbeat time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	cfg := deps.Config
	window := cfg.RateLimitWindow()

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware(middleware.DefaultRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	}
	if cfg.CSRFProtection {
		r.Use(middleware.CSRFMiddleware(cfg.IsProduction(), deps.SecurityLogger))
	}
	r.Use(middleware.ErrorHandler())

	if cfg.UploadBackend == "local" {
		r.Static(cfg.UploadPublicPath, cfg.UploadDir)
	}

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	NewAuthHandler(v1, deps.AuthUC, cfg)
	NewRelayHandler(v1, deps.RelayUC, RelayLimits{
		Contact:    endpointLimit(deps.RateLimiter, "rl:contact:", cfg.RateLimitContact, window),
		Booking:    endpointLimit(deps.RateLimiter, "rl:booking:", cfg.RateLimitBooking, window),
		Newsletter: endpointLimit(deps.RateLimiter, "rl:newsletter:", cfg.RateLimitNewsletter, window),
	})

	// Session guarded routes
	protected := v1.Group("")
	protected.Use(middleware.SessionGuard(deps.AuthUC, cfg.SessionCookieName, deps.SecurityLogger), middleware.NoStore())

	admin := protected.Group("/admin")
	{
		NewContentHandler(v1, admin, deps.Content)
		NewAdminHandler(admin, deps.ExportUC, deps.Feed, deps.EventsHeartbeat)
		NewUploadHandler(protected, deps.UploadUC, endpointLimit(deps.RateLimiter, "rl:upload:", cfg.RateLimitUpload, window))
	}

	return r
}

func endpointLimit(rl *middleware.RateLimiter, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	if rl == nil {
		return nil
	}
	return rl.Middleware(middleware.EndpointRateLimitConfig(prefix, limit, window, false))
}
