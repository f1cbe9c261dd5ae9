package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"llc-directory/internal/common/config"
	"llc-directory/internal/common/database"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// countingSource counts Load calls on a wrapped source.
type countingSource struct {
	Source
	calls int
}

func (c *countingSource) Load(ctx context.Context) (models.Table, error) {
	c.calls++
	return c.Source.Load(ctx)
}

func TestCachedSource_SecondLoadServedFromRedis(t *testing.T) {
	mr, client := setupRedis(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "d.csv", "name,state,city,phone\nAcme LLC,Florida,Miami,\nBest Co,Texas,Austin,555\n")

	inner := &countingSource{Source: NewFileSource([]string{path}, logger.NewNoOpLogger())}
	src := NewCachedSource(inner, client, CacheOptions{KeyPrefix: "test", TTL: time.Minute}, logger.NewTestLogger(t))

	first, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists(src.Key()))
	assert.Equal(t, time.Minute, mr.TTL(src.Key()))

	require.NoError(t, os.Remove(path))

	second, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Columns(), second.Columns())
	require.Equal(t, first.Len(), second.Len())
	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.At(i).Fields(), second.At(i).Fields())
	}
}

func TestCachedSource_ExpiryReloads(t *testing.T) {
	mr, client := setupRedis(t)
	inner := &countingSource{Source: NewMemorySource("memory", SampleTable())}
	src := NewCachedSource(inner, client, CacheOptions{KeyPrefix: "test", TTL: time.Second}, logger.NewNoOpLogger())

	_, _ = src.Load(context.Background())
	mr.FastForward(2 * time.Second)
	_, _ = src.Load(context.Background())

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_EmptyTableNotCached(t *testing.T) {
	mr, client := setupRedis(t)
	src := NewCachedSource(
		NewFileSource([]string{filepath.Join(t.TempDir(), "missing.csv")}, logger.NewNoOpLogger()),
		client, CacheOptions{KeyPrefix: "test", TTL: time.Minute}, logger.NewNoOpLogger(),
	)

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
	assert.False(t, mr.Exists(src.Key()))
}

func TestCachedSource_CorruptSnapshotFallsBack(t *testing.T) {
	mr, client := setupRedis(t)
	log := newTestLogger()
	src := NewCachedSource(NewMemorySource("memory", SampleTable()), client,
		CacheOptions{KeyPrefix: "test", TTL: time.Minute}, log)

	require.NoError(t, mr.Set(src.Key(), "{not json"))

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14, table.Len())
	assert.Contains(t, log.messages("warn"), "dataset cache unavailable, using source")
}

func TestCachedSource_RedisDownFallsBack(t *testing.T) {
	mr, client := setupRedis(t)
	mr.Close()

	src := NewCachedSource(NewMemorySource("memory", SampleTable()), client,
		CacheOptions{KeyPrefix: "test", TTL: time.Minute}, logger.NewNoOpLogger())

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14, table.Len())
}

func TestCachedSource_Invalidate(t *testing.T) {
	mr, client := setupRedis(t)
	src := NewCachedSource(NewMemorySource("memory", SampleTable()), client,
		CacheOptions{KeyPrefix: "test", TTL: time.Minute}, logger.NewNoOpLogger())

	_, _ = src.Load(context.Background())
	require.True(t, mr.Exists(src.Key()))
	require.NoError(t, src.Invalidate(context.Background()))
	assert.False(t, mr.Exists(src.Key()))
	assert.Equal(t, "test:dataset:v1:memory", src.Key())
	assert.Equal(t, "cached-memory", src.Name())
}

func TestNewSource(t *testing.T) {
	_, client := setupRedis(t)

	tests := []struct {
		name     string
		cfg      config.Config
		redis    *database.RedisClient
		wantName string
		wantErr  bool
	}{
		{
			name:     "file",
			cfg:      config.Config{Dataset: config.DatasetConfig{Mode: config.DatasetModeFile}},
			wantName: "file",
		},
		{
			name:     "memory",
			cfg:      config.Config{Dataset: config.DatasetConfig{Mode: config.DatasetModeMemory}},
			wantName: "memory",
		},
		{
			name: "cached file",
			cfg: config.Config{
				Dataset: config.DatasetConfig{Mode: config.DatasetModeFile},
				Cache:   config.CacheConfig{Enabled: true, TTL: 60, KeyPrefix: "t"},
			},
			redis:    client,
			wantName: "cached-file",
		},
		{
			name: "cache without client",
			cfg: config.Config{
				Dataset: config.DatasetConfig{Mode: config.DatasetModeFile},
				Cache:   config.CacheConfig{Enabled: true},
			},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			cfg:     config.Config{Dataset: config.DatasetConfig{Mode: "sqlite"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(&tt.cfg, tt.redis, nil, logger.NewNoOpLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
		})
	}
}
