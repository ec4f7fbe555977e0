package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewFeedMetrics(reg)
	require.NoError(t, err)

	m.ObserveFetch("success", 120*time.Millisecond)
	m.ObserveFetch("success", 80*time.Millisecond)
	m.ObserveFetch("unexpected_status", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("unexpected_status")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))

	m.ObserveState(true, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loading))

	m.ObserveState(false, 30)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.loading))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.users))
}

func TestNewFeedMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewFeedMetrics(reg)
	require.NoError(t, err)

	_, err = NewFeedMetrics(reg)
	assert.Error(t, err)
}
