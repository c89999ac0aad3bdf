package prometheus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "engine"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, c MetricsCollector) string {
	t.Helper()
	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestNewMetricsCollector_RuntimeCollectors(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	counter := c.RegisterCounter("runs_total", "runs", "status")
	counter.WithLabelValues("completed").Inc()
	counter.WithLabelValues("completed").Add(2)

	assert.Contains(t, scrapeMetrics(t, c), `test_engine_runs_total{status="completed"} 3`)
}

func TestRegisterCounter_DuplicateReturnsSameVec(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterCounter("dup_total", "dup", "k")
	b := c.RegisterCounter("dup_total", "dup", "k")
	a.WithLabelValues("x").Inc()
	b.WithLabelValues("x").Inc()

	assert.Contains(t, scrapeMetrics(t, c), `test_engine_dup_total{k="x"} 2`)
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("shared", "counter first")
	g := c.RegisterGauge("shared", "gauge second")

	_, ok := g.(noopGaugeVec)
	assert.True(t, ok)
	assert.NotPanics(t, func() { g.WithLabelValues().Set(4) })
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("occupied_cells", "cells", "region")
	g.WithLabelValues("r1").Set(10)
	g.WithLabelValues("r1").Inc()
	g.WithLabelValues("r1").Dec()
	g.WithLabelValues("r1").Dec()

	assert.Contains(t, scrapeMetrics(t, c), `test_engine_occupied_cells{region="r1"} 9`)
}

func TestRegisterHistogram(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("align_seconds", "align", []float64{1, 5}, "layer")
	h.WithLabelValues("bio1").Observe(0.5)
	h.WithLabelValues("bio1").Observe(3)

	body := scrapeMetrics(t, c)
	assert.Contains(t, body, `test_engine_align_seconds_bucket{layer="bio1",le="1"} 1`)
	assert.Contains(t, body, `test_engine_align_seconds_bucket{layer="bio1",le="5"} 2`)
	assert.Contains(t, body, `test_engine_align_seconds_count{layer="bio1"} 2`)
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterHistogram("default_seconds", "d", nil).WithLabelValues().Observe(0.2)
	assert.Contains(t, scrapeMetrics(t, c), `test_engine_default_seconds_bucket{le="0.25"} 1`)
}

type recordingHistogram struct{ values []float64 }

func (h *recordingHistogram) Observe(v float64) { h.values = append(h.values, v) }

func TestTimer(t *testing.T) {
	h := &recordingHistogram{}
	timer := NewTimer(h)
	time.Sleep(5 * time.Millisecond)
	d := timer.ObserveDuration()

	require.Len(t, h.values, 1)
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	assert.InDelta(t, d.Seconds(), h.values[0], 1e-9)

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

func TestServe_StopsOnCancel(t *testing.T) {
	c := newTestCollector(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", c, nil) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

//Personal.AI order the ending
