package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/GurugubelliAjay/E-Commerce/internal/kvstore"
	"github.com/GurugubelliAjay/E-Commerce/internal/model"
)

const featuredCacheKey = "featured_products"

// ProductStore is the persistence slice behind the catalog.
type ProductStore interface {
	All(ctx context.Context) ([]model.Product, error)
	Featured(ctx context.Context) ([]model.Product, error)
	ByCategory(ctx context.Context, category string) ([]model.Product, error)
	Random(ctx context.Context, n int) ([]model.Product, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Save(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint) error
}

// CatalogService fronts the product store with a cache for the featured
// subset. The cache entry has no TTL; it is only replaced by explicit
// invalidation after a featured-flag change.
type CatalogService struct {
	store ProductStore
	kv    kvstore.Store
}

func NewCatalogService(store ProductStore, kv kvstore.Store) *CatalogService {
	return &CatalogService{store: store, kv: kv}
}

func (s *CatalogService) All(ctx context.Context) ([]model.Product, error) {
	return s.store.All(ctx)
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return s.store.ByCategory(ctx, category)
}

func (s *CatalogService) Recommended(ctx context.Context) ([]model.Product, error) {
	return s.store.Random(ctx, 3)
}

// GetFeatured is a read-through: serve the cached JSON when present,
// otherwise load from the store and populate. A racing duplicate populate
// writes the same derived data, so no locking is needed. No featured
// products is an empty list, not an error.
func (s *CatalogService) GetFeatured(ctx context.Context) ([]model.Product, error) {
	cached, err := s.kv.Get(ctx, featuredCacheKey)
	if err == nil {
		var ps []model.Product
		if jsonErr := json.Unmarshal([]byte(cached), &ps); jsonErr == nil {
			return ps, nil
		}
		// Corrupt entry: fall through and rebuild it.
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		log.Printf("featured cache read failed: %v", err)
	}

	ps, err := s.store.Featured(ctx)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []model.Product{}
	}
	if data, err := json.Marshal(ps); err == nil {
		if err := s.kv.Set(ctx, featuredCacheKey, string(data), 0); err != nil {
			log.Printf("featured cache populate failed: %v", err)
		}
	}
	return ps, nil
}

// InvalidateFeatured rebuilds the cache entry from the store. Callers that
// toggle a featured flag run this synchronously before responding so the
// next read never sees the stale set.
func (s *CatalogService) InvalidateFeatured(ctx context.Context) error {
	ps, err := s.store.Featured(ctx)
	if err != nil {
		return err
	}
	if ps == nil {
		ps = []model.Product{}
	}
	data, err := json.Marshal(ps)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, featuredCacheKey, string(data), 0)
}

func (s *CatalogService) Create(ctx context.Context, p *model.Product) error {
	return s.store.Create(ctx, p)
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if p.IsFeatured {
		if err := s.InvalidateFeatured(ctx); err != nil {
			log.Printf("featured cache refresh after delete failed: %v", err)
		}
	}
	return nil
}

// ToggleFeatured flips the flag and refreshes the cache before returning.
func (s *CatalogService) ToggleFeatured(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	p.IsFeatured = !p.IsFeatured
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := s.InvalidateFeatured(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
