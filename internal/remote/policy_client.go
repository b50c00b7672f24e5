package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// PolicyClient reads and writes the pricing policy kept by the configuration
// backend. Policy values are validated before PutPolicy is ever called.
type PolicyClient struct {
	baseURL string
	client  *http.Client
}

func NewPolicyClient(baseURL string, timeout time.Duration) *PolicyClient {
	return &PolicyClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(newBreakerTransport("policy", http.DefaultTransport)),
		},
	}
}

func (c *PolicyClient) GetPolicy(ctx context.Context) (domain.PricingPolicy, error) {
	var policy domain.PricingPolicy

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pricing-policy", nil)
	if err != nil {
		return policy, fmt.Errorf("failed to build policy request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return policy, fmt.Errorf("policy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return policy, fmt.Errorf("policy backend returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&policy); err != nil {
		return policy, fmt.Errorf("malformed policy payload: %w", err)
	}

	return policy, nil
}

func (c *PolicyClient) PutPolicy(ctx context.Context, policy domain.PricingPolicy) error {
	body, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/pricing-policy", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build policy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("policy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("policy backend returned %d", resp.StatusCode)
	}

	return nil
}
