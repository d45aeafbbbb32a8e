// Package catalog resolves product ids to their descriptive attributes for
// the top-products rollup. The catalog itself is owned by the storefront;
// this service only reads it.
package catalog

import (
	"context"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

// Reader looks up one product by id. A product that doesn't exist is reported
// as (nil, nil); errors are reserved for lookup failures.
type Reader interface {
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Static is a fixed in-memory catalog
type Static map[string]domain.Product

// NewStatic builds a Static catalog keyed by product id
func NewStatic(products ...domain.Product) Static {
	s := make(Static, len(products))
	for _, p := range products {
		s[p.ID] = p
	}
	return s
}

func (s Static) FindProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
