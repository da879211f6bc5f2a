// Package supplier places orders with the downstream supplier. A failure
// here is isolated from the ledger: callers record the order without a
// supplier reference instead of dropping it.
package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cimillas/dropship-api/internal/domain"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

type placementRequest struct {
	UserID   string          `json:"userId"`
	Date     string          `json:"date"`
	Products []placementLine `json:"products"`
}

type placementLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type placementResponse struct {
	ID json.Number `json:"id"`
}

// Place submits the order lines downstream in a single blocking call and
// returns the supplier's opaque placement id. Any transport or protocol
// failure maps to domain.ErrSupplierUnavailable.
func (c *Client) Place(ctx context.Context, ownerID string, lines []domain.OrderLine, placedAt time.Time) (string, error) {
	payload := placementRequest{
		UserID:   ownerID,
		Date:     placedAt.UTC().Format(time.RFC3339),
		Products: make([]placementLine, 0, len(lines)),
	}
	for _, line := range lines {
		payload.Products = append(payload.Products, placementLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode placement: %w", domain.ErrSupplierUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/carts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build placement request: %w", domain.ErrSupplierUnavailable)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("placement request: %w", domain.ErrSupplierUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("supplier status %d: %w", resp.StatusCode, domain.ErrSupplierUnavailable)
	}

	var placement placementResponse
	if err := json.NewDecoder(resp.Body).Decode(&placement); err != nil {
		return "", fmt.Errorf("decode placement response: %w", domain.ErrSupplierUnavailable)
	}
	if placement.ID.String() == "" {
		return "", fmt.Errorf("placement id missing: %w", domain.ErrSupplierUnavailable)
	}
	return placement.ID.String(), nil
}
