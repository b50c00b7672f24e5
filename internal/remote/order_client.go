package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// OrderClient posts order submissions to the order-creation backend. Failures
// are returned to the caller as-is; nothing is retried automatically, the
// checkout service preserves the cart so the user can retry manually.
type OrderClient struct {
	baseURL string
	client  *http.Client
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(newBreakerTransport("orders", http.DefaultTransport)),
		},
	}
}

type orderResponse struct {
	OrderID string `json:"order_id"`
}

func (c *OrderClient) Submit(ctx context.Context, submission *domain.OrderSubmission) (string, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("order backend returned %d: %s", resp.StatusCode, detail)
	}

	var payload orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("malformed order response: %w", err)
	}
	if payload.OrderID == "" {
		return "", fmt.Errorf("order backend returned no order id")
	}

	return payload.OrderID, nil
}
