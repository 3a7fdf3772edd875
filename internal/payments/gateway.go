package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/Baro-rgb/CINEBOOK/internal/bookings"
	"github.com/Baro-rgb/CINEBOOK/internal/shared/config"
)

var ErrSessionCreation = errors.New("checkout session creation failed")

// HostedCheckoutGateway creates hosted checkout sessions against the payment
// provider's REST API. The returned URL is where the customer completes the
// payment; settlement comes back through the webhook.
type HostedCheckoutGateway struct {
	baseURL    string
	secretKey  string
	currency   string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

func NewHostedCheckoutGateway(cfg *config.PaymentConfig) *HostedCheckoutGateway {
	return &HostedCheckoutGateway{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type checkoutLineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Quantity   int    `json:"quantity"`
}

type checkoutSessionRequest struct {
	Mode       string            `json:"mode"`
	LineItems  []checkoutLineItem `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`
	ExpiresAt  int64             `json:"expires_at"`
}

type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession implements bookings.CheckoutGateway. The whole
// booking amount goes out as a single line item priced in minor currency
// units; the booking ID travels in metadata so the webhook can route the
// settlement back.
func (g *HostedCheckoutGateway) CreateCheckoutSession(ctx context.Context, params bookings.CheckoutParams) (*bookings.CheckoutSession, error) {
	reqBody := checkoutSessionRequest{
		Mode: "payment",
		LineItems: []checkoutLineItem{
			{
				Name:       params.ProductName,
				UnitAmount: int64(math.Floor(params.Amount)) * 100,
				Currency:   g.currency,
				Quantity:   1,
			},
		},
		SuccessURL: g.successURL,
		CancelURL:  g.cancelURL,
		Metadata: map[string]string{
			"booking_id": params.BookingID,
		},
		ExpiresAt: params.ExpiresAt.Unix(),
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrSessionCreation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSessionCreation, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrSessionCreation, resp.StatusCode)
	}

	var session checkoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSessionCreation, err)
	}

	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("%w: provider returned incomplete session", ErrSessionCreation)
	}

	return &bookings.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}
