package adapter

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegionCollector exports the header of one region as gauges.
type RegionCollector struct {
	src          HeaderSource
	totalBytes   *prometheus.Desc
	elements     *prometheus.Desc
	elementBytes *prometheus.Desc
}

// NewRegionCollector returns a collector for src labelled region=name.
func NewRegionCollector(name string, src HeaderSource) *RegionCollector {
	labels := prometheus.Labels{"region": name}
	return &RegionCollector{
		src: src,
		totalBytes: prometheus.NewDesc("memvector_region_total_bytes",
			"Total region size recorded in the header, header included.", nil, labels),
		elements: prometheus.NewDesc("memvector_region_elements",
			"Number of records in the region.", nil, labels),
		elementBytes: prometheus.NewDesc("memvector_region_element_bytes",
			"Size of one record.", nil, labels),
	}
}

func (c *RegionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalBytes
	ch <- c.elements
	ch <- c.elementBytes
}

func (c *RegionCollector) Collect(ch chan<- prometheus.Metric) {
	h := c.src.Header()
	ch <- prometheus.MustNewConstMetric(c.totalBytes, prometheus.GaugeValue, float64(h.TotalSize))
	ch <- prometheus.MustNewConstMetric(c.elements, prometheus.GaugeValue, float64(h.ElementCount))
	ch <- prometheus.MustNewConstMetric(c.elementBytes, prometheus.GaugeValue, float64(h.ElementSize))
}
