package payments

import (
	"io"
	"net/http"

	"github.com/Baro-rgb/CINEBOOK/internal/shared/utils/response"
	"github.com/Baro-rgb/CINEBOOK/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxWebhookBody bounds the raw payload read from the provider
const maxWebhookBody = 1 << 20

type Controller interface {
	HandleWebhook(c *gin.Context)
}

type controller struct {
	service  Service
	verifier *WebhookVerifier
	log      *logger.Logger
}

func NewController(service Service, verifier *WebhookVerifier, log *logger.Logger) Controller {
	return &controller{
		service:  service,
		verifier: verifier,
		log:      log,
	}
}

// HandleWebhook receives payment provider deliveries. The signature is
// verified against the raw body before anything is parsed; unsigned or
// tampered payloads never reach the settlement path.
func (ctrl *controller) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to read webhook body", nil, nil)
		return
	}

	if err := ctrl.verifier.Verify(payload, c.GetHeader(SignatureHeader)); err != nil {
		ctrl.log.LogWebhookRejected(c.Request.Context(), err.Error(), c.ClientIP())
		response.RespondJSON(c, "error", http.StatusBadRequest, ErrInvalidSignature.Error(), nil, nil)
		return
	}

	event, err := ParseEvent(payload)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Malformed webhook event", nil, err.Error())
		return
	}

	if event.Type != EventCheckoutCompleted {
		// Acknowledge anything else so the provider stops redelivering
		response.RespondJSON(c, "success", http.StatusOK, "Event ignored", gin.H{"received": true}, nil)
		return
	}

	session, err := event.CheckoutSession()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Malformed checkout session", nil, err.Error())
		return
	}

	bookingID, err := uuid.Parse(session.Metadata["booking_id"])
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Missing or invalid booking_id metadata", nil, nil)
		return
	}

	if err := ctrl.service.ConfirmPayment(c.Request.Context(), bookingID, session.ID); err != nil {
		// A transient settlement failure; the provider will redeliver
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to settle payment", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Webhook processed", gin.H{"received": true}, nil)
}
