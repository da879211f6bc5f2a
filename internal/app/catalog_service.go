package app

import (
	"context"
	"strings"

	"github.com/cimillas/dropship-api/internal/domain"
	"github.com/cimillas/dropship-api/internal/pricing"
)

// CatalogReader is the full catalog surface used by product browsing.
type CatalogReader interface {
	ProductFetcher
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// CatalogService exposes the catalog with the markup already applied.
type CatalogService struct {
	catalog CatalogReader
	pricer  *pricing.Engine
}

func NewCatalogService(catalog CatalogReader, pricer *pricing.Engine) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		pricer:  pricer,
	}
}

// ListProducts returns the priced catalog, filtered by a case-insensitive
// title substring when query is non-empty. The filter runs after pricing.
func (s *CatalogService) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	priced := make([]domain.Product, 0, len(products))
	for _, p := range products {
		unit, err := s.pricer.UnitPrice(p.Price)
		if err != nil {
			return nil, err
		}
		p.Price = unit
		priced = append(priced, p)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return priced, nil
	}

	needle := strings.ToLower(query)
	filtered := make([]domain.Product, 0, len(priced))
	for _, p := range priced {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	unit, err := s.pricer.UnitPrice(product.Price)
	if err != nil {
		return domain.Product{}, err
	}
	product.Price = unit
	return product, nil
}
