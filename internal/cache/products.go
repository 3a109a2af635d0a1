package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"
)

const ProductCacheTTL = 10 * time.Minute

const productsAllKey = "products:all"

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func categoryKey(category string) string {
	return "products:category:" + category
}

// ProductCache met en cache le catalogue en JSON devant le ProductStore
type ProductCache struct {
	cache Cache
	store database.ProductStore
	ttl   time.Duration
}

func NewProductCache(c Cache, store database.ProductStore) *ProductCache {
	return &ProductCache{cache: c, store: store, ttl: ProductCacheTTL}
}

// readThrough essaie le cache, sinon charge depuis load et remplit le cache.
// Une panne du cache n'empêche jamais la lecture.
func readThrough[T any](ctx context.Context, pc *ProductCache, key string, load func() (T, error)) (T, error) {
	var out T

	data, err := pc.cache.Get(ctx, key)
	if err == nil {
		if json.Unmarshal([]byte(data), &out) == nil {
			return out, nil
		}
	} else if !errors.Is(err, ErrMiss) {
		log.Printf("⚠️ Cache indisponible (%s): %v", key, err)
	}

	out, err = load()
	if err != nil {
		return out, err
	}

	if encoded, err := json.Marshal(out); err == nil {
		if err := pc.cache.Set(ctx, key, string(encoded), pc.ttl); err != nil {
			log.Printf("⚠️ Écriture cache impossible (%s): %v", key, err)
		}
	}
	return out, nil
}

func (pc *ProductCache) List(ctx context.Context) ([]models.Product, error) {
	return readThrough(ctx, pc, productsAllKey, func() ([]models.Product, error) {
		return pc.store.ListProducts(ctx)
	})
}

func (pc *ProductCache) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return readThrough(ctx, pc, categoryKey(category), func() ([]models.Product, error) {
		return pc.store.ListProductsByCategory(ctx, category)
	})
}

func (pc *ProductCache) Get(ctx context.Context, id int64) (*models.Product, error) {
	return readThrough(ctx, pc, productKey(id), func() (*models.Product, error) {
		return pc.store.GetProduct(ctx, id)
	})
}

// Invalidate retire le produit et les listes qui peuvent le contenir
func (pc *ProductCache) Invalidate(ctx context.Context, id int64, category string) {
	if err := pc.cache.Del(ctx, productKey(id), productsAllKey, categoryKey(category)); err != nil {
		log.Printf("⚠️ Invalidation cache produit %d: %v", id, err)
	}
}
