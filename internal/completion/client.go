// Package completion wraps the completion service used for lyrical feature
// extraction, taste assessments, and song suggestions.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Sentinel errors.
var (
	// ErrQuotaExhausted is returned when the completion service reports an
	// exhausted quota. Callers must stop the current run and retry later.
	ErrQuotaExhausted = errors.New("completion quota exhausted")

	// ErrEmptyResponse is returned when the service responds without content.
	ErrEmptyResponse = errors.New("empty completion response")
)

// Client is a completion service client with retry on transient failures.
type Client struct {
	api   anthropic.Client
	model anthropic.Model

	// retryDelays drives the backoff between attempts on 429/5xx responses.
	retryDelays []time.Duration
}

// Config holds completion client settings.
type Config struct {
	APIKey string
	Model  string
}

// NewClient creates a new completion client.
func NewClient(cfg Config) *Client {
	return &Client{
		api:         anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       anthropic.Model(cfg.Model),
		retryDelays: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// complete sends one system+user message pair and returns the response text.
// Transient failures (rate limits, server errors) are retried with backoff;
// quota exhaustion surfaces immediately as ErrQuotaExhausted.
func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= len(c.retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelays[attempt-1]):
			}
		}

		msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       c.model,
			MaxTokens:   2048,
			Temperature: anthropic.Float(temperature),
			System: []anthropic.TextBlockParam{
				{Text: system},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
			},
		})
		if err == nil {
			if len(msg.Content) == 0 {
				return "", ErrEmptyResponse
			}
			return msg.Content[0].Text, nil
		}

		if quotaExhausted(err) {
			return "", fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
		if !retryable(err) {
			return "", fmt.Errorf("completion request: %w", err)
		}
		lastErr = err
	}

	return "", fmt.Errorf("completion request after retries: %w", lastErr)
}

// quotaExhausted reports whether err is a billing/quota failure rather than a
// transient rate limit. These must not be retried within the same run.
func quotaExhausted(err error) bool {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := strings.ToLower(apiErr.Error())
	return strings.Contains(msg, "credit balance") || strings.Contains(msg, "quota")
}

func retryable(err error) bool {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		// Network-level failures are worth one more try.
		return true
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
}

// extractJSON finds the first complete JSON object in a completion response.
// Models occasionally wrap JSON output in prose or markdown fences.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
