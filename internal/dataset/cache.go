package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"llc-directory/internal/common/database"
	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/common/metrics"
	"llc-directory/internal/models"
)

// snapshotVersion is bumped whenever the cached payload shape changes.
const snapshotVersion = "v1"

// CacheOptions configures a CachedSource.
type CacheOptions struct {
	KeyPrefix string
	TTL       time.Duration
}

// CachedSource serves tables from Redis and falls back to the wrapped source
// on a miss or any cache failure. Entries expire after TTL, which bounds how
// stale a served table can be. Empty tables are never cached so a dataset
// that appears later is picked up on the next load.
type CachedSource struct {
	inner  Source
	redis  *database.RedisClient
	key    string
	ttl    time.Duration
	logger logger.Logger
}

type snapshot struct {
	Columns []string                `json:"columns"`
	Rows    []models.ProviderRecord `json:"rows"`
}

func NewCachedSource(inner Source, redis *database.RedisClient, opts CacheOptions, log logger.Logger) *CachedSource {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	return &CachedSource{
		inner: inner,
		redis: redis,
		key:   fmt.Sprintf("%s:dataset:%s:%s", opts.KeyPrefix, snapshotVersion, inner.Name()),
		ttl:   opts.TTL,
		logger: log.WithFields(map[string]interface{}{
			"source": "cache",
			"inner":  inner.Name(),
		}),
	}
}

func (s *CachedSource) Name() string { return "cached-" + s.inner.Name() }

// Key returns the Redis key the snapshot is stored under.
func (s *CachedSource) Key() string { return s.key }

func (s *CachedSource) Load(ctx context.Context) (models.Table, error) {
	if table, ok := s.fromCache(ctx); ok {
		return table, nil
	}

	table, err := s.inner.Load(ctx)
	if err != nil {
		return models.EmptyTable(), err
	}
	if !table.IsEmpty() {
		s.store(ctx, table)
	}
	return table, nil
}

// Invalidate drops the cached snapshot.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.redis.Del(ctx, s.key)
}

func (s *CachedSource) fromCache(ctx context.Context) (models.Table, bool) {
	data, err := s.redis.Get(ctx, s.key)
	if errors.Is(err, database.ErrCacheMiss) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return models.Table{}, false
	}
	if err != nil {
		s.warn("get", err)
		return models.Table{}, false
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.warn("decode", err)
		return models.Table{}, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return models.NewTable(snap.Columns, snap.Rows), true
}

func (s *CachedSource) store(ctx context.Context, table models.Table) {
	data, err := json.Marshal(snapshot{Columns: table.Columns(), Rows: table.Records()})
	if err != nil {
		s.warn("encode", err)
		return
	}
	if err := s.redis.Set(ctx, s.key, data, s.ttl); err != nil {
		s.warn("set", err)
	}
}

func (s *CachedSource) warn(op string, err error) {
	metrics.CacheLookups.WithLabelValues("error").Inc()
	stdErr := apperrors.NewCacheUnavailableError(op, err)
	s.logger.Warn("dataset cache unavailable, using source", map[string]interface{}{
		"key":       s.key,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
}
