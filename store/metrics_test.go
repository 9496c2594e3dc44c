package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dci/blobstore"
)

func TestBasicMetricsCollector(t *testing.T) {
	ctx := context.Background()
	m := &BasicMetricsCollector{}
	s := New(blobstore.NewMemoryStore(), WithMetrics(m))

	require.NoError(t, s.Save(ctx, "t", randomTable(t, 1, "t", 5)))
	_, err := s.Load(ctx, "t")
	require.NoError(t, err)
	_, err = s.Load(ctx, "missing")
	require.Error(t, err)
	require.NoError(t, s.Delete(ctx, "t"))
	require.Error(t, s.Delete(ctx, "t"))

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.SaveCount)
	assert.Equal(t, int64(0), stats.SaveErrors)
	assert.Positive(t, stats.SaveBytes)
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)
	assert.Equal(t, stats.SaveBytes, stats.LoadBytes)
	assert.Equal(t, int64(2), stats.DeleteCount)
	assert.Equal(t, int64(1), stats.DeleteErrors)
}

func TestPrometheusCollector(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	p, err := NewPrometheusCollector(reg, "dci")
	require.NoError(t, err)
	s := New(blobstore.NewMemoryStore(), WithMetrics(p))

	require.NoError(t, s.Save(ctx, "t", randomTable(t, 1, "t", 5)))
	require.NoError(t, s.Save(ctx, "u", randomTable(t, 2, "u", 5)))
	_, err = s.Load(ctx, "missing")
	require.Error(t, err)

	assert.InDelta(t, 2, promtest.ToFloat64(p.ops.WithLabelValues("save", "ok")), 0)
	assert.InDelta(t, 1, promtest.ToFloat64(p.ops.WithLabelValues("load", "error")), 0)
	assert.Positive(t, promtest.ToFloat64(p.bytes.WithLabelValues("save")))
	assert.Equal(t, 2, promtest.CollectAndCount(p.duration))

	_, err = NewPrometheusCollector(reg, "dci")
	require.Error(t, err)
}
