package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureHeader(secret string, timestamp int64, payload []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, signPayload(secret, timestamp, payload))
}

func frozenVerifier(secret string, tolerance time.Duration, at time.Time) *WebhookVerifier {
	v := NewWebhookVerifier(secret, tolerance)
	v.now = func() time.Time { return at }
	return v
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	v := frozenVerifier("whsec_test", 5*time.Minute, now)
	payload := []byte(`{"type":"checkout.session.completed"}`)

	header := signatureHeader("whsec_test", now.Unix(), payload)
	assert.NoError(t, v.Verify(payload, header))
}

func TestVerifyAcceptsSignatureWithinTolerance(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	v := frozenVerifier("whsec_test", 5*time.Minute, now)
	payload := []byte(`{}`)

	header := signatureHeader("whsec_test", now.Add(-4*time.Minute).Unix(), payload)
	assert.NoError(t, v.Verify(payload, header))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Now()
	v := frozenVerifier("whsec_test", 5*time.Minute, now)
	payload := []byte(`{}`)

	header := signatureHeader("whsec_other", now.Unix(), payload)
	assert.ErrorIs(t, v.Verify(payload, header), ErrInvalidSignature)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	now := time.Now()
	v := frozenVerifier("whsec_test", 5*time.Minute, now)

	header := signatureHeader("whsec_test", now.Unix(), []byte(`{"amount":100}`))
	assert.ErrorIs(t, v.Verify([]byte(`{"amount":999}`), header), ErrInvalidSignature)
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	v := frozenVerifier("whsec_test", 5*time.Minute, now)
	payload := []byte(`{}`)

	header := signatureHeader("whsec_test", now.Add(-6*time.Minute).Unix(), payload)
	assert.ErrorIs(t, v.Verify(payload, header), ErrInvalidSignature)
}

func TestVerifyRejectsFutureTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	v := frozenVerifier("whsec_test", 5*time.Minute, now)
	payload := []byte(`{}`)

	header := signatureHeader("whsec_test", now.Add(6*time.Minute).Unix(), payload)
	assert.ErrorIs(t, v.Verify(payload, header), ErrInvalidSignature)
}

func TestVerifyRejectsMalformedHeaders(t *testing.T) {
	v := NewWebhookVerifier("whsec_test", 5*time.Minute)
	payload := []byte(`{}`)

	tests := []struct {
		name   string
		header string
	}{
		{"empty header", ""},
		{"no pairs", "garbage"},
		{"missing signature", fmt.Sprintf("t=%d", time.Now().Unix())},
		{"missing timestamp", "v1=deadbeef"},
		{"non-numeric timestamp", "t=yesterday,v1=deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, v.Verify(payload, tt.header), ErrInvalidSignature)
		})
	}
}

func TestVerifyAcceptsSecondSignatureAfterRotation(t *testing.T) {
	// During secret rotation the provider sends one v1 per active secret
	now := time.Now()
	v := frozenVerifier("whsec_new", 5*time.Minute, now)
	payload := []byte(`{}`)

	header := fmt.Sprintf("t=%d,v1=%s,v1=%s",
		now.Unix(),
		signPayload("whsec_old", now.Unix(), payload),
		signPayload("whsec_new", now.Unix(), payload))
	assert.NoError(t, v.Verify(payload, header))
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_abc",
				"metadata": {"booking_id": "7be20194-91fd-4c4f-9c6c-d68b87040f82"}
			}
		}
	}`)

	event, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, EventCheckoutCompleted, event.Type)

	session, err := event.CheckoutSession()
	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc", session.ID)
	assert.Equal(t, "7be20194-91fd-4c4f-9c6c-d68b87040f82", session.Metadata["booking_id"])
}

func TestParseEventRejectsBadPayloads(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"id":"evt_1"}`))
	assert.Error(t, err, "an event without a type is unusable")
}
