package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
)

// RelayLimits are the per-endpoint rate limit middlewares of the public forms
type RelayLimits struct {
	Contact    gin.HandlerFunc
	Booking    gin.HandlerFunc
	Newsletter gin.HandlerFunc
}

type RelayHandler struct {
	relayUC domain.RelayUsecase
}

// NewRelayHandler registers the public form routes (no auth required)
func NewRelayHandler(public *gin.RouterGroup, relayUC domain.RelayUsecase, limits RelayLimits) {
	handler := &RelayHandler{
		relayUC: relayUC,
	}

	public.POST("/contact", withLimit(limits.Contact, handler.SubmitContact)...)
	public.POST("/booking", withLimit(limits.Booking, handler.SubmitBooking)...)
	public.POST("/newsletter", withLimit(limits.Newsletter, handler.Subscribe)...)
}

func withLimit(limit, h gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{limit, h}
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Send a message through the contact form. This is a public endpoint.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *RelayHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	if err := h.relayUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Your message has been sent successfully!", nil)
}

// SubmitBooking godoc
// @Summary      Book a consultation
// @Description  Emails the booking to the owner and forwards it over WhatsApp when configured.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        booking  body      domain.BookingRequest  true  "Booking Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /booking [post]
func (h *RelayHandler) SubmitBooking(c *gin.Context) {
	var req domain.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	if err := h.relayUC.SendBooking(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Your booking request has been received!", nil)
}

// Subscribe godoc
// @Summary      Newsletter signup
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        newsletter  body      domain.NewsletterRequest  true  "Subscriber"
// @Success      200         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Failure      429         {object}  response.Response
// @Failure      503         {object}  response.Response
// @Router       /newsletter [post]
func (h *RelayHandler) Subscribe(c *gin.Context) {
	var req domain.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	if err := h.relayUC.Subscribe(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Thanks for subscribing!", nil)
}
