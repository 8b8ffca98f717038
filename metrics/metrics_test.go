// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopByDefault(t *testing.T) {
	// must not panic before initialization
	Counter("noop_counter").Add(1)
	Gauge("noop_gauge").Set(42)
	CounterVec("noop_vec", []string{"op"}).AddWithLabel(1, map[string]string{"op": "stake"})

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestPrometheusMeters(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("ops_total").Add(3)
	Counter("ops_total").Add(2)
	Gauge("total_staked").Set(100)
	CounterVec("failures_total", []string{"op"}).AddWithLabel(1, map[string]string{"op": "withdraw"})

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), "pond_ops_total 5"))
	assert.True(t, strings.Contains(string(body), "pond_total_staked 100"))
	assert.True(t, strings.Contains(string(body), `pond_failures_total{op="withdraw"} 1`))
}

func TestLazyLoadBindsAtFirstUse(t *testing.T) {
	// defined while the singleton may still be noop, like a package-level var
	lazyCounter := LazyLoadCounter("lazy_ops_total")
	lazyVec := LazyLoadCounterVec("lazy_vec_total", []string{"op"})
	lazyGauge := LazyLoadGauge("lazy_staked")

	InitializePrometheusMetrics()

	lazyCounter().Add(7)
	lazyVec().AddWithLabel(2, map[string]string{"op": "stake"})
	lazyGauge().Set(11)

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), "pond_lazy_ops_total 7"))
	assert.True(t, strings.Contains(string(body), `pond_lazy_vec_total{op="stake"} 2`))
	assert.True(t, strings.Contains(string(body), "pond_lazy_staked 11"))
}
