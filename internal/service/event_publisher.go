package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"

	"github.com/rs/zerolog"
)

// defaultRetryIntervals spaces out redelivery attempts to the subscriber.
var defaultRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	5 * time.Minute,
}

// EventPayload is the JSON structure sent to the subscriber URL.
type EventPayload struct {
	EventType string           `json:"event_type"`
	Data      EventPayloadData `json:"data"`
	Signature string           `json:"signature"`
}

// EventPayloadData holds the event details in the webhook body.
type EventPayloadData struct {
	EventID   string  `json:"event_id"`
	Registry  string  `json:"registry"`
	TokenID   string  `json:"token_id"`
	Actor     string  `json:"actor"`
	Price     *uint64 `json:"price,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookEventPublisher implements ports.EventPublisher by POSTing signed
// event payloads to a configured subscriber URL. Delivery is asynchronous
// and best-effort: a subscriber outage never fails the mutation that
// produced the event.
type WebhookEventPublisher struct {
	subscriberURL  string
	signingSecret  string
	sigSvc         ports.SignatureService
	httpClient     HTTPClient
	retryIntervals []time.Duration
	log            zerolog.Logger
}

// NewWebhookEventPublisher creates a new webhook publisher. An empty
// subscriberURL disables delivery entirely.
func NewWebhookEventPublisher(
	subscriberURL string,
	signingSecret string,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) *WebhookEventPublisher {
	return &WebhookEventPublisher{
		subscriberURL:  subscriberURL,
		signingSecret:  signingSecret,
		sigSvc:         sigSvc,
		httpClient:     httpClient,
		retryIntervals: defaultRetryIntervals,
		log:            log,
	}
}

// Publish fires the event at the subscriber asynchronously with retries.
func (p *WebhookEventPublisher) Publish(ctx context.Context, event domain.MarketEvent) {
	if p.subscriberURL == "" {
		p.log.Debug().Str("event", string(event.Type)).Msg("no subscriber configured, skipping delivery")
		return
	}

	payload, err := p.buildPayload(event)
	if err != nil {
		p.log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to build event payload")
		return
	}

	go p.deliverWithRetries(payload, event.ID.String())
}

// buildPayload marshals and signs the event body.
func (p *WebhookEventPublisher) buildPayload(event domain.MarketEvent) ([]byte, error) {
	data := EventPayloadData{
		EventID:   event.ID.String(),
		Registry:  event.AssetKey.Registry.String(),
		TokenID:   event.AssetKey.TokenID,
		Actor:     event.Actor.String(),
		Price:     event.Price,
		Timestamp: event.CreatedAt.Unix(),
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	payload := EventPayload{
		EventType: string(event.Type),
		Data:      data,
		Signature: p.sigSvc.Sign(p.signingSecret, string(dataBytes)),
	}
	return json.Marshal(payload)
}

// deliverWithRetries attempts delivery until a 2xx response or the retry
// budget is exhausted.
func (p *WebhookEventPublisher) deliverWithRetries(payload []byte, eventID string) {
	for attempt := 0; attempt <= len(p.retryIntervals); attempt++ {
		if attempt > 0 {
			time.Sleep(p.retryIntervals[attempt-1])
		}

		if p.deliverOnce(payload, eventID, attempt+1) {
			return
		}
	}

	p.log.Error().Str("event_id", eventID).Msg("event delivery attempts exhausted")
}

func (p *WebhookEventPublisher) deliverOnce(payload []byte, eventID string, attempt int) bool {
	req, err := http.NewRequest(http.MethodPost, p.subscriberURL, bytes.NewReader(payload))
	if err != nil {
		p.log.Error().Err(err).Str("event_id", eventID).Int("attempt", attempt).Msg("failed to create event request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Warn().Err(err).Str("event_id", eventID).Int("attempt", attempt).Msg("event delivery failed")
		return false
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		p.log.Info().Str("event_id", eventID).Int("attempt", attempt).Int("status", resp.StatusCode).Msg("event delivered")
		return true
	}

	p.log.Warn().Str("event_id", eventID).Int("attempt", attempt).Int("status", resp.StatusCode).Msg("subscriber returned non-2xx")
	return false
}
