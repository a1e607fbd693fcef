package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	config *config.Config
}

func NewAuthHandler(public *gin.RouterGroup, authUC domain.AuthUsecase, cfg *config.Config) {
	handler := &AuthHandler{
		authUC: authUC,
		config: cfg,
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/logout", handler.Logout)
		publicAuth.GET("/session", handler.Session)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse keeps the user at the top level, where the dashboard reads it
type LoginResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	User      domain.SessionUser `json:"user"`
	ExpiresAt time.Time          `json:"expiresAt"`
	RequestID string             `json:"request_id,omitempty"`
}

type SessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	User          *domain.SessionUser `json:"user,omitempty"`
}

// Login godoc
// @Summary      Admin login
// @Description  Checks the admin credentials and sets the session cookie. Five failures lock the client out for 15 minutes.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login Credentials"
// @Success      200    {object}  LoginResponse
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	attempt := domain.LoginAttempt{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: middleware.GetRequestID(c),
	}
	if err := h.authUC.CheckBlocked(c.Request.Context(), attempt); err != nil {
		c.Error(err)
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	attempt.Email = req.Email
	attempt.Password = req.Password
	result, err := h.authUC.Login(c.Request.Context(), attempt)
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookie(c, result.Token, int(time.Until(result.ExpiresAt).Seconds()))
	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Message:   "Login successful",
		User:      result.User,
		ExpiresAt: result.ExpiresAt,
		RequestID: middleware.GetRequestID(c),
	})
}

// Logout godoc
// @Summary      Admin logout
// @Description  Clears the session cookie. Always succeeds.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.config.SessionCookieName)
	h.authUC.Logout(c.Request.Context(), token, c.ClientIP())
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// Session godoc
// @Summary      Current session
// @Description  Reports whether the session cookie is valid. Never fails with 401.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  SessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	token, err := c.Cookie(h.config.SessionCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
		return
	}
	user, err := h.authUC.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Authenticated: true, User: user})
}

// setSessionCookie writes the HttpOnly session cookie; maxAge < 0 deletes it
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.SessionCookieName, token, maxAge, "/", "", h.config.IsProduction(), true)
}
