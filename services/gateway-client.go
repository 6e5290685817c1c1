package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"marketplace-project/backend/logging"
	"marketplace-project/backend/models"

	"github.com/sony/gobreaker"
)

// GatewayOrder is the gateway's representation of a created checkout order.
type GatewayOrder struct {
	OrderID  string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency unit (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// PaymentGateway creates checkout orders with the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount models.Money, receipt string) (*GatewayOrder, error)
}

// RazorpayClient talks to the Razorpay orders API. All calls go through a
// circuit breaker so a dead gateway fails fast instead of tying up requests.
type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewRazorpayClient(baseURL, keyID, keySecret string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *RazorpayClient {
	return &RazorpayClient{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amount models.Money, receipt string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amount.Paise(),
		"currency": "INR",
		"receipt":  receipt,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode order payload: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build order request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(c.keyID, c.keySecret)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("gateway request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}

		var order GatewayOrder
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			return nil, fmt.Errorf("failed to decode gateway response: %w", err)
		}
		return &order, nil
	})

	if err != nil {
		logging.Logger.Errorf("Event ID: GATEWAY_ORDER_FAILED, Description: Failed to create gateway order: %v", err)
		return nil, models.NewExternalError("payment gateway is unavailable")
	}

	return result.(*GatewayOrder), nil
}
