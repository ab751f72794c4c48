// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"carvalue_backend/internal/feature/reports/domain/entity"
	"carvalue_backend/internal/feature/reports/usecase"
)

// CachingReportRepository decorates a ReportRepository with Redis caching
// of estimate results. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository. Writes pass
// through; stale estimates age out via the TTL.
type CachingReportRepository struct {
	inner     usecase.ReportRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ReportRepository = (*CachingReportRepository)(nil)

// NewCachingReportRepository decorates a ReportRepository with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses
// "estimates".
func NewCachingReportRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ReportRepository, namespace string) *CachingReportRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "estimates"
	}
	return &CachingReportRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts a report via the underlying repository.
func (c *CachingReportRepository) Create(ctx context.Context, report *entity.Report) error {
	return c.inner.Create(ctx, report)
}

// FindByID delegates to the underlying repository.
func (c *CachingReportRepository) FindByID(ctx context.Context, id uint) (*entity.Report, error) {
	return c.inner.FindByID(ctx, id)
}

// Save delegates to the underlying repository.
func (c *CachingReportRepository) Save(ctx context.Context, report *entity.Report) error {
	return c.inner.Save(ctx, report)
}

// Estimate retrieves an estimate, checking the cache first then falling
// back to the database.
func (c *CachingReportRepository) Estimate(ctx context.Context, q usecase.EstimateQuery) (*float64, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Estimate(ctx, q)
	}

	key := c.cacheKey(q)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out *float64
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.Estimate(ctx, q)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a specific estimate query.
func (c *CachingReportRepository) cacheKey(q usecase.EstimateQuery) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d:%.2f:%.2f",
		c.namespace, q.Make, q.Model, q.Year, q.Mileage, q.Lng, q.Lat)
}
