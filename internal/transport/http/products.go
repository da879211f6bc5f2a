package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cimillas/dropship-api/internal/domain"
)

// ProductReader is the minimal interface needed to browse the catalog.
type ProductReader interface {
	ListProducts(ctx context.Context, query string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

// HandleListProducts returns priced products, optionally filtered by the
// q parameter (title substring).
func HandleListProducts(svc ProductReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toProductResponse(p))
		}
		writeJSON(w, http.StatusOK, listProductsResponse{Success: true, Products: out})
	}
}

// HandleGetProduct returns one priced product.
func HandleGetProduct(svc ProductReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, getProductResponse{Success: true, Product: toProductResponse(product)})
	}
}

type productResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type listProductsResponse struct {
	Success  bool              `json:"success"`
	Products []productResponse `json:"products"`
}

type getProductResponse struct {
	Success bool            `json:"success"`
	Product productResponse `json:"product"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price.StringFixed(2),
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
	}
}
