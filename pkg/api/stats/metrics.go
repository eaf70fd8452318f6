package stats

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

type Collector struct {
	reg *prometheus.Registry

	Queries       *prometheus.CounterVec // labels: query, outcome
	QueryDuration *prometheus.HistogramVec

	TimetableStops     prometheus.Gauge
	TimetableTrips     prometheus.Gauge
	TimetableStopTimes prometheus.Gauge
	TimetableLoadedAt  prometheus.Gauge
	TimetableReloads   *prometheus.CounterVec // label: outcome
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journeyplanner_queries_total",
			Help: "Total queries handled.",
		}, []string{"query", "outcome"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "journeyplanner_query_duration_seconds",
			Help:    "Duration of query handling.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}, []string{"query"}),
		TimetableStops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journeyplanner_timetable_stops",
			Help: "Stops in the published timetable.",
		}),
		TimetableTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journeyplanner_timetable_trips",
			Help: "Trips in the published timetable.",
		}),
		TimetableStopTimes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journeyplanner_timetable_stop_times",
			Help: "Stop times in the published timetable.",
		}),
		TimetableLoadedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journeyplanner_timetable_loaded_timestamp_seconds",
			Help: "Unix time the published timetable was built.",
		}),
		TimetableReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journeyplanner_timetable_reloads_total",
			Help: "Timetable reload attempts.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.Queries, c.QueryDuration,
		c.TimetableStops, c.TimetableTrips, c.TimetableStopTimes, c.TimetableLoadedAt,
		c.TimetableReloads,
	)

	return c
}

func (c *Collector) ObserveQuery(query string, outcome string, duration time.Duration) {
	c.Queries.WithLabelValues(query, outcome).Inc()
	c.QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

func (c *Collector) ObserveSnapshot(snapshot *timetable.Snapshot) {
	c.TimetableStops.Set(float64(snapshot.StopCount()))
	c.TimetableTrips.Set(float64(snapshot.TripCount()))
	c.TimetableStopTimes.Set(float64(snapshot.CallCount()))
	c.TimetableLoadedAt.Set(float64(snapshot.LoadedAt.Unix()))
}

func (c *Collector) ObserveReload(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.TimetableReloads.WithLabelValues(outcome).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
