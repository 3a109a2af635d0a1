package services

import (
	"context"
	"errors"
	"fmt"

	"cloudscale_back_end/internal/cache"
	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"
)

type CatalogService struct {
	products database.ProductStore
	cache    *cache.ProductCache
}

func NewCatalogService(products database.ProductStore, pc *cache.ProductCache) *CatalogService {
	return &CatalogService{products: products, cache: pc}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.cache.List(ctx)
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.cache.ByCategory(ctx, category)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.cache.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: produit %d", ErrNotFound, id)
	}
	return p, err
}

// ReduceStock retire quantity du stock sans descendre sous zéro
func (s *CatalogService) ReduceStock(ctx context.Context, id int64, quantity int) error {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	remaining := max(p.StockCount-quantity, 0)
	if err := s.products.UpdateProductStock(ctx, id, remaining); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id, p.Category)
	return nil
}
