// Package catalog fetches products from the upstream catalog API. Calls
// are single-attempt with a bounded timeout; retry policy belongs to
// callers.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

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

// GetProduct fetches a single product by id. The returned price is the
// upstream base price, not marked up.
func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, domain.ErrInvalidID
	}

	var wire wireProduct
	status, err := c.getJSON(ctx, c.baseURL+"/products/"+id, &wire)
	if err != nil {
		return domain.Product{}, err
	}
	switch {
	case status == http.StatusNotFound:
		return domain.Product{}, domain.ErrProductNotFound
	case status != http.StatusOK:
		return domain.Product{}, fmt.Errorf("catalog status %d: %w", status, domain.ErrCatalogUnavailable)
	}
	// The upstream has been seen answering 200 with an empty body for
	// unknown ids.
	if wire.ID == "" && wire.Title == "" {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return wire.toDomain()
}

// ListProducts fetches the full catalog with upstream base prices.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var wires []wireProduct
	status, err := c.getJSON(ctx, c.baseURL+"/products", &wires)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("catalog status %d: %w", status, domain.ErrCatalogUnavailable)
	}

	products := make([]domain.Product, 0, len(wires))
	for _, w := range wires {
		p, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// getJSON performs one GET and decodes the body when the status is 200.
// The status code is returned so callers can map 404 before treating the
// body as malformed.
func (c *Client) getJSON(ctx context.Context, url string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build catalog request: %w", domain.ErrCatalogUnavailable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("catalog request: %w", domain.ErrCatalogUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode catalog response: %w", domain.ErrCatalogUnavailable)
	}
	return resp.StatusCode, nil
}

// wireProduct tolerates the upstream's loose typing: ids arrive as numbers
// or strings, prices as numbers or numeric strings.
type wireProduct struct {
	ID          flexString `json:"id"`
	Title       string     `json:"title"`
	Price       flexString `json:"price"`
	Image       string     `json:"image"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
}

func (w wireProduct) toDomain() (domain.Product, error) {
	price, err := decimal.NewFromString(string(w.Price))
	if err != nil {
		return domain.Product{}, fmt.Errorf("price %q: %w", w.Price, domain.ErrInvalidPrice)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("price %q: %w", w.Price, domain.ErrInvalidPrice)
	}
	return domain.Product{
		ID:          string(w.ID),
		Title:       w.Title,
		Price:       price,
		Image:       w.Image,
		Category:    w.Category,
		Description: w.Description,
	}, nil
}

// flexString decodes a JSON string or bare scalar into its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(b, &unquoted); err != nil {
			return err
		}
		*f = flexString(unquoted)
		return nil
	}
	*f = flexString(s)
	return nil
}
