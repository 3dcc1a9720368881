package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() domain.MarketEvent {
	return domain.NewItemListed(domain.NewAssetKey("0xregistry", "42"), "0xseller", 10, time.Now().UTC())
}

func TestWebhookEventPublisher_DeliversSignedPayload(t *testing.T) {
	var received atomic.Pointer[EventPayload]
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload EventPayload
		require.NoError(t, json.Unmarshal(body, &payload))
		received.Store(&payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sigSvc := NewHMACSignatureService()
	p := NewWebhookEventPublisher(srv.URL, "hook-secret", sigSvc, srv.Client(), zerolog.Nop())

	event := testEvent()
	payload, err := p.buildPayload(event)
	require.NoError(t, err)
	assert.True(t, p.deliverOnce(payload, event.ID.String(), 1))

	got := received.Load()
	require.NotNil(t, got)
	assert.Equal(t, "ITEM_LISTED", got.EventType)
	assert.Equal(t, event.ID.String(), got.Data.EventID)
	assert.Equal(t, "0xregistry", got.Data.Registry)
	assert.Equal(t, "42", got.Data.TokenID)
	require.NotNil(t, got.Data.Price)
	assert.Equal(t, uint64(10), *got.Data.Price)

	// Subscriber can verify the signature over the data object.
	dataBytes, err := json.Marshal(got.Data)
	require.NoError(t, err)
	assert.True(t, sigSvc.Verify("hook-secret", string(dataBytes), got.Signature))
}

func TestWebhookEventPublisher_RetriesOnFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewWebhookEventPublisher(srv.URL, "s", NewHMACSignatureService(), srv.Client(), zerolog.Nop())
	p.retryIntervals = []time.Duration{time.Millisecond}

	event := testEvent()
	payload, err := p.buildPayload(event)
	require.NoError(t, err)

	p.deliverWithRetries(payload, event.ID.String())
	assert.Equal(t, int32(2), calls.Load())
}

func TestWebhookEventPublisher_NoSubscriberConfigured(t *testing.T) {
	p := NewWebhookEventPublisher("", "s", NewHMACSignatureService(), http.DefaultClient, zerolog.Nop())

	// Must be a no-op, not a panic or a network call.
	p.Publish(context.Background(), testEvent())
}
