// Package gateway implements the payment provider client. The provider
// hosts the checkout page; this client opens a session and reports the
// user's decision back as a business outcome.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"movieshop/config"
	"movieshop/domain/payment"
	"movieshop/domain/shared"

	"github.com/sony/gobreaker/v2"
)

// CheckoutClient calls the provider over HTTP. Calls flow through a circuit
// breaker so a dead provider sheds load fast instead of holding every
// request for the full timeout.
type CheckoutClient struct {
	baseURL    string
	apiKey     string
	successURL string
	cancelURL  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*payment.CheckoutSession]
}

// NewCheckoutClient Create the provider client from configuration.
func NewCheckoutClient(cfg *config.GatewayConfig) *CheckoutClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &CheckoutClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[*payment.CheckoutSession](settings),
	}
}

type sessionLineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type sessionRequest struct {
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	LineItems  []sessionLineItem `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
}

type sessionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateCheckoutSession Open a hosted checkout session and wait for its
// outcome. A decline by the user comes back as OutcomeCanceled; anything
// the provider did not answer cleanly is an error.
func (c *CheckoutClient) CreateCheckoutSession(ctx context.Context, amount shared.Money, lines []payment.LineItem) (*payment.CheckoutSession, error) {
	return c.breaker.Execute(func() (*payment.CheckoutSession, error) {
		return c.createSession(ctx, amount, lines)
	})
}

func (c *CheckoutClient) createSession(ctx context.Context, amount shared.Money, lines []payment.LineItem) (*payment.CheckoutSession, error) {
	reqBody := sessionRequest{
		Amount:     amount.Amount(),
		Currency:   amount.Currency(),
		SuccessURL: c.successURL,
		CancelURL:  c.cancelURL,
		LineItems:  make([]sessionLineItem, len(lines)),
	}
	for i, line := range lines {
		reqBody.LineItems[i] = sessionLineItem{
			Name:     line.Name,
			Amount:   line.Amount.Amount(),
			Currency: line.Amount.Currency(),
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	switch session.Status {
	case "complete", "success":
		return &payment.CheckoutSession{
			Outcome:    payment.OutcomeSuccess,
			ExternalID: session.ID,
		}, nil
	case "canceled", "cancelled":
		return &payment.CheckoutSession{
			Outcome:    payment.OutcomeCanceled,
			ExternalID: session.ID,
		}, nil
	default:
		return nil, fmt.Errorf("gateway returned unknown session status %q", session.Status)
	}
}

// Compile-time interface implementation check
var _ payment.Gateway = (*CheckoutClient)(nil)
