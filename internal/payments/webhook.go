package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

const (
	// SignatureHeader carries the provider's webhook signature in the form
	// "t=<unix>,v1=<hex hmac>".
	SignatureHeader = "Webhook-Signature"

	// EventCheckoutCompleted is the only event type this service settles on
	EventCheckoutCompleted = "checkout.session.completed"
)

// WebhookVerifier checks webhook payloads against the signing secret shared
// with the payment provider.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewWebhookVerifier(secret string, tolerance time.Duration) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		now:       time.Now,
	}
}

// Verify checks the signature header against the raw request body. The
// timestamp bound rejects replayed deliveries older than the tolerance.
func (v *WebhookVerifier) Verify(payload []byte, header string) error {
	if header == "" {
		return fmt.Errorf("%w: missing signature header", ErrInvalidSignature)
	}

	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			ts, err := strconv.ParseInt(pair[1], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, pair[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return fmt.Errorf("%w: malformed signature header", ErrInvalidSignature)
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return ErrInvalidSignature
}

// Event is the provider's webhook envelope
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// SessionObject is the checkout session carried by a completed-checkout event
type SessionObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("webhook event has no type")
	}
	return &event, nil
}

// CheckoutSession extracts the session object from the event payload
func (e *Event) CheckoutSession() (*SessionObject, error) {
	var session SessionObject
	if err := json.Unmarshal(e.Data.Object, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("checkout session has no id")
	}
	return &session, nil
}
