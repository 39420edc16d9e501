package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go-interview-backend/internal/delivery/http/middleware"
	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhookUC domain.WebhookUsecase
	secret    string
	tolerance time.Duration
	secLog    *security.SecurityLogger
	now       func() time.Time
}

func NewWebhookHandler(public *gin.RouterGroup, webhookUC domain.WebhookUsecase, secret string, tolerance time.Duration, secLog *security.SecurityLogger) {
	handler := &WebhookHandler{
		webhookUC: webhookUC,
		secret:    secret,
		tolerance: tolerance,
		secLog:    secLog,
		now:       time.Now,
	}
	public.POST("/webhooks/identity", handler.Identity)
}

// IdentityWebhook godoc
// @Summary      Identity provider user events
// @Description  Mirrors user.created, user.updated and user.deleted. Signed with HMAC-SHA256 in X-Webhook-Signature.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Signature  header    string                true  "t=<unix>,v1=<hex>"
// @Param        event                body      domain.IdentityEvent  true  "Event"
// @Success      200                  {object}  response.Response
// @Failure      401                  {object}  response.Response
// @Router       /webhooks/identity [post]
func (h *WebhookHandler) Identity(c *gin.Context) {
	if h.secret == "" {
		c.Error(apperror.New(http.StatusServiceUnavailable, "Webhook ingestion is not configured", nil))
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.Error(apperror.BadRequest("Unreadable body"))
		return
	}

	sig := c.GetHeader(security.SignatureHeader)
	if err := security.VerifySignature(h.secret, sig, body, h.now(), h.tolerance); err != nil {
		h.secLog.LogInvalidWebhookSignature(c.Request.Context(), c.ClientIP(), c.GetString(middleware.RequestIDKey), err.Error())
		c.Error(apperror.Unauthorized("Invalid webhook signature"))
		return
	}

	var event domain.IdentityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.Error(apperror.BadRequest("Invalid event payload"))
		return
	}

	if err := h.webhookUC.HandleIdentityEvent(c.Request.Context(), event); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Event processed", gin.H{"type": event.Type})
}
