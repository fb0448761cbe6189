package adapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/memvector/pkg/memvector"
)

type sample struct {
	A uint64
	B uint32
	C uint32
}

func newVector(t *testing.T, count int) (*memvector.Vector[sample], []byte) {
	t.Helper()
	words := make([]uint64, memvector.RequiredSize[sample](count)/8)
	region := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*8)
	v, err := memvector.Create[sample](region)
	require.NoError(t, err)
	return v, region
}

func gaugeValues(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			assert.Equal(t, "region", m.GetLabel()[0].GetName())
			out[mf.GetName()+"/"+m.GetLabel()[0].GetValue()] = gaugeOf(m)
		}
	}
	return out
}

func gaugeOf(m *dto.Metric) float64 {
	return m.GetGauge().GetValue()
}

func TestRegionCollector(t *testing.T) {
	v, _ := newVector(t, 12)
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewRegionCollector("sessions", v)))

	got := gaugeValues(t, reg)
	assert.Equal(t, float64(memvector.RequiredSize[sample](12)), got["memvector_region_total_bytes/sessions"])
	assert.Equal(t, float64(12), got["memvector_region_elements/sessions"])
	assert.Equal(t, float64(16), got["memvector_region_element_bytes/sessions"])
}

func TestRegionCollectorsPerRegion(t *testing.T) {
	a, _ := newVector(t, 2)
	b, _ := newVector(t, 3)
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewRegionCollector("a", a)))
	require.NoError(t, reg.Register(NewRegionCollector("b", b)))

	got := gaugeValues(t, reg)
	assert.Equal(t, float64(2), got["memvector_region_elements/a"])
	assert.Equal(t, float64(3), got["memvector_region_elements/b"])
}

func TestRegionCheck(t *testing.T) {
	v, region := newVector(t, 4)
	check := RegionCheck(v, len(region))
	assert.NoError(t, check())
	assert.Error(t, RegionCheck(v, 8)())

	(*memvector.Header)(v.Addr()).ElementCount = 99
	assert.ErrorIs(t, check(), memvector.ErrCorruptHeader)
}

func TestHealthHandler(t *testing.T) {
	good, _ := newVector(t, 4)
	bad, _ := newVector(t, 4)
	(*memvector.Header)(bad.Addr()).ElementSize = 0

	h := NewHealthHandler(map[string]HeaderSource{"good": good})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewHealthHandler(map[string]HeaderSource{"good": good, "bad": bad})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
