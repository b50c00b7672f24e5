package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/catalog"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// CatalogClient fetches the product listing from the catalog backend. It
// implements catalog.Loader: any transport, status or parse failure surfaces
// as catalog.ErrCatalogUnavailable so callers never fall back to an empty
// catalog by accident.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(newBreakerTransport("catalog", http.DefaultTransport)),
		},
	}
}

type catalogResponse struct {
	Items []domain.CatalogItem `json:"items"`
}

func (c *CatalogClient) Load(ctx context.Context) (*catalog.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/catalog", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrCatalogUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog backend returned %d", catalog.ErrCatalogUnavailable, resp.StatusCode)
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed catalog payload: %v", catalog.ErrCatalogUnavailable, err)
	}

	for _, item := range payload.Items {
		if item.ID == "" || item.UnitPrice.IsNegative() || item.AvailableStock < 0 {
			return nil, fmt.Errorf("%w: malformed catalog item %q", catalog.ErrCatalogUnavailable, item.ID)
		}
	}

	return catalog.NewSnapshot(payload.Items, time.Now()), nil
}
