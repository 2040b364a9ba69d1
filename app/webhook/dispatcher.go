package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-marketplace/app/factory"
)

// Envelope is the payload POSTed to a publisher's webhook endpoint.
type Envelope struct {
	Event             string            `json:"event"`
	SubscriptionID    string            `json:"subscription_id"`
	ServiceID         string            `json:"service_id"`
	SubscriberAddress string            `json:"subscriber_address"`
	Plan              string            `json:"plan"`
	Price             float64           `json:"price"`
	WebhookData       map[string]string `json:"webhook_data"`
	TransactionHash   string            `json:"transaction_hash"`
	Timestamp         string            `json:"timestamp"`
}

// Dispatcher delivers at-most-once notifications to publisher endpoints.
// No retries, no queue; callers treat any returned error as non-fatal.
type Dispatcher struct {
	client *http.Client
	logger logrus.FieldLogger
}

func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		client: &http.Client{Timeout: timeout},
		logger: factory.NewModuleLogger("webhook-dispatcher"),
	}
}

func (d *Dispatcher) Notify(ctx context.Context, url string, envelope Envelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal webhook envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}

	d.logger.WithFields(logrus.Fields{
		"event":           envelope.Event,
		"subscription_id": envelope.SubscriptionID,
		"url":             url,
	}).Debug("webhook_delivered")

	return nil
}
