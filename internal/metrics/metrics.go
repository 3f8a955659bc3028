// Package metrics exposes Prometheus counters for imports and enrollment
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	assignmentsTotal *prometheus.CounterVec
	enrollmentsTotal *prometheus.CounterVec
	scripturesTotal  *prometheus.CounterVec
	textsTotal       *prometheus.CounterVec
	previewTotal     *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		assignmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biblebee",
			Name:      "assignments_total",
			Help:      "Assignment rows considered by enrollment, by kind and result.",
		}, []string{"kind", "result"}),
		enrollmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biblebee",
			Name:      "enrollments_total",
			Help:      "Enrollment attempts by outcome.",
		}, []string{"outcome"}),
		scripturesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biblebee",
			Name:      "scripture_commits_total",
			Help:      "CSV rows committed to a competition year, by action.",
		}, []string{"action"}),
		textsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biblebee",
			Name:      "text_merges_total",
			Help:      "JSON bundle items merged into scripture texts, by action.",
		}, []string{"action"}),
		previewTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biblebee",
			Name:      "preview_records_total",
			Help:      "Records classified by import previews.",
		}, []string{"class"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// RecordAssignment counts one scripture or essay assignment; result is
// "created" or "existing"
func RecordAssignment(kind, result string, n int) {
	if n <= 0 {
		return
	}
	getMetrics().assignmentsTotal.WithLabelValues(kind, result).Add(float64(n))
}

// RecordEnrollment counts one enrollment outcome: enrolled, skipped or ambiguous
func RecordEnrollment(outcome string) {
	getMetrics().enrollmentsTotal.WithLabelValues(outcome).Inc()
}

// RecordCommit counts CSV commit actions
func RecordCommit(inserted, updated, skipped int) {
	m := getMetrics()
	m.scripturesTotal.WithLabelValues("inserted").Add(float64(inserted))
	m.scripturesTotal.WithLabelValues("updated").Add(float64(updated))
	m.scripturesTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordMerge counts JSON text merge actions
func RecordMerge(updated, created, unmatched int) {
	m := getMetrics()
	m.textsTotal.WithLabelValues("updated").Add(float64(updated))
	m.textsTotal.WithLabelValues("created").Add(float64(created))
	m.textsTotal.WithLabelValues("unmatched").Add(float64(unmatched))
}

// RecordPreview counts the classification of a preview run
func RecordPreview(matches, csvOnly, jsonOnly int) {
	m := getMetrics()
	m.previewTotal.WithLabelValues("match").Add(float64(matches))
	m.previewTotal.WithLabelValues("csv_only").Add(float64(csvOnly))
	m.previewTotal.WithLabelValues("json_only").Add(float64(jsonOnly))
}
