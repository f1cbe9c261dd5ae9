// Package dataset loads the provider listing table.
//
// Every Source degrades to an empty table when the data is unavailable; a
// non-nil error from Load means a programming defect, never missing data.
package dataset

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"llc-directory/internal/common/config"
	"llc-directory/internal/common/database"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/common/observability"
	"llc-directory/internal/models"
)

// Source yields a fresh table on every Load. Implementations share no
// mutable state between calls and are safe for concurrent use.
type Source interface {
	Load(ctx context.Context) (models.Table, error)
	Name() string
}

// MemorySource serves a prebuilt table.
type MemorySource struct {
	name  string
	table models.Table
}

func NewMemorySource(name string, table models.Table) *MemorySource {
	return &MemorySource{name: name, table: table}
}

func (s *MemorySource) Name() string { return s.name }

func (s *MemorySource) Load(ctx context.Context) (models.Table, error) {
	if err := ctx.Err(); err != nil {
		return models.EmptyTable(), nil
	}
	return s.table, nil
}

//go:embed testdata/sample.csv
var sampleCSV string

// SampleTable is the bundled demo dataset used in memory mode.
func SampleTable() models.Table {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		panic(fmt.Sprintf("bundled sample dataset: %v", err))
	}
	return table
}

// NewSource builds the configured source stack: file or memory, optionally
// behind the Redis cache.
func NewSource(cfg *config.Config, redis *database.RedisClient, obs *observability.Observability, log logger.Logger) (Source, error) {
	var src Source
	switch cfg.Dataset.Mode {
	case config.DatasetModeMemory:
		src = NewMemorySource("memory", SampleTable())
	case config.DatasetModeFile, "":
		src = NewFileSource(cfg.Dataset.CandidatePaths, log).WithObservability(obs)
	default:
		return nil, fmt.Errorf("unknown dataset mode %q", cfg.Dataset.Mode)
	}

	if cfg.Cache.Enabled {
		if redis == nil {
			return nil, fmt.Errorf("cache enabled but no redis client")
		}
		src = NewCachedSource(src, redis, CacheOptions{
			KeyPrefix: cfg.Cache.KeyPrefix,
			TTL:       cfg.Cache.TTLDuration(),
		}, log)
	}
	return src, nil
}
