// Package notify posts build notifications to a webhook so downstream
// consumers can revalidate without polling the manifest.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/docsmith-io/docsmith/internal/utils"
	"github.com/docsmith-io/docsmith/pkg/version"
)

// ErrNotConfigured indicates no webhook URL was supplied
var ErrNotConfigured = errors.New("webhook url not configured")

// Payload is the body POSTed to the webhook after a successful build
type Payload struct {
	Hash        string `json:"hash"`
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`
}

// StatusError reports a non-success webhook response
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.Code)
}

// Notifier delivers build notifications with exponential backoff
type Notifier struct {
	url             string
	client          *http.Client
	maxRetries      int
	initialInterval time.Duration
	logger          *utils.Logger
}

// NotifierOptions contains options for creating a Notifier
type NotifierOptions struct {
	URL             string
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
	Logger          *utils.Logger
}

// NewNotifier creates a new Notifier with the given options
func NewNotifier(opts NotifierOptions) *Notifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 1 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewDefaultLogger()
	}

	return &Notifier{
		url:             opts.URL,
		client:          &http.Client{Timeout: opts.Timeout},
		maxRetries:      opts.MaxRetries,
		initialInterval: opts.InitialInterval,
		logger:          opts.Logger.WithComponent("notify"),
	}
}

// Send delivers the payload, retrying transient failures with exponential
// backoff. Responses below 500 (other than 429) are permanent failures.
func (n *Notifier) Send(ctx context.Context, payload Payload) error {
	if n.url == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}

	b := n.newBackoff()
	b = backoff.WithContext(b, ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := n.post(ctx, body)
		if err == nil {
			if attempt > 1 {
				n.logger.Info().Int("attempt", attempt).Msg("Webhook delivered after retry")
			}
			return nil
		}

		if !isRetryable(err) {
			return backoff.Permanent(err)
		}

		n.logger.Warn().Int("attempt", attempt).Err(err).Msg("Webhook delivery failed, retrying")
		return err
	}, b)
}

// newBackoff creates a new exponential backoff
func (n *Notifier) newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = n.initialInterval
	b.MaxInterval = 30 * time.Second
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5
	b.Reset()

	return backoff.WithMaxRetries(b, uint64(n.maxRetries))
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &StatusError{Code: resp.StatusCode}
}

// isRetryable treats transport errors and retryable statuses as transient
func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return ShouldRetryStatus(statusErr.Code)
	}
	return true
}

// ShouldRetryStatus returns true if the HTTP status code should be retried
func ShouldRetryStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusBadGateway:
		return true
	case http.StatusServiceUnavailable:
		return true
	case http.StatusGatewayTimeout:
		return true
	}

	return statusCode >= 500
}
