package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Collector = (*datasetCollector)(nil)

type datasetCollector struct {
	stats StatsFunc
	desc  *prometheus.Desc
}

func newDatasetCollector(stats StatsFunc) *datasetCollector {
	return &datasetCollector{
		stats: stats,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "records"),
			"Number of records per collection",
			[]string{"collection"},
			nil,
		),
	}
}

func (c *datasetCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *datasetCollector) Collect(ch chan<- prometheus.Metric) {
	games, reviews, authors := c.stats()
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(games), "games")
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(reviews), "reviews")
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(authors), "authors")
}
