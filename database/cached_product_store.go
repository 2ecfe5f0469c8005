package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/princinho/sahomattress/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const catalogVersionKey = "catalog:version"

// CachedProductStore caches List results in redis. Every mutation bumps a
// version counter that is part of the cache key, so stale lists are never read
// again and simply expire. Redis failures fall through to the wrapped store.
type CachedProductStore struct {
	next   ProductRepository
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedProductStore(next ProductRepository, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedProductStore {
	return &CachedProductStore{next: next, client: client, ttl: ttl, log: log}
}

func listKey(version int64, category *models.Category) string {
	scope := "all"
	if category != nil {
		scope = string(*category)
	}
	return fmt.Sprintf("catalog:v%d:products:%s", version, scope)
}

func (s *CachedProductStore) version(ctx context.Context) (int64, error) {
	v, err := s.client.Get(ctx, catalogVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (s *CachedProductStore) List(ctx context.Context, category *models.Category) ([]models.Product, error) {
	version, err := s.version(ctx)
	if err != nil {
		s.log.Warn("catalog cache unavailable", zap.Error(err))
		return s.next.List(ctx, category)
	}

	key := listKey(version, category)
	data, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		var products []models.Product
		if jsonErr := json.Unmarshal(data, &products); jsonErr == nil {
			return products, nil
		}
		s.log.Warn("discarding corrupt catalog cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn("catalog cache read failed", zap.Error(err))
	}

	products, err := s.next.List(ctx, category)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(products); err == nil {
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.log.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

func (s *CachedProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.next.GetByID(ctx, id)
}

func (s *CachedProductStore) Create(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	p, err := s.next.Create(ctx, fields)
	if err == nil {
		s.invalidate(ctx)
	}
	return p, err
}

func (s *CachedProductStore) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	p, err := s.next.Update(ctx, id, patch)
	if err == nil {
		s.invalidate(ctx)
	}
	return p, err
}

func (s *CachedProductStore) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.next.Delete(ctx, id)
	if err == nil && deleted {
		s.invalidate(ctx)
	}
	return deleted, err
}

func (s *CachedProductStore) invalidate(ctx context.Context) {
	if err := s.client.Incr(ctx, catalogVersionKey).Err(); err != nil {
		s.log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
