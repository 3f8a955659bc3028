package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCommit(t *testing.T) {
	m := getMetrics()
	before := testutil.ToFloat64(m.scripturesTotal.WithLabelValues("inserted"))

	RecordCommit(3, 1, 0)

	assert.Equal(t, before+3, testutil.ToFloat64(m.scripturesTotal.WithLabelValues("inserted")))
}

func TestRecordAssignment_IgnoresZero(t *testing.T) {
	m := getMetrics()
	before := testutil.ToFloat64(m.assignmentsTotal.WithLabelValues("essay", "created"))

	RecordAssignment("essay", "created", 0)
	RecordAssignment("essay", "created", 1)

	assert.Equal(t, before+1, testutil.ToFloat64(m.assignmentsTotal.WithLabelValues("essay", "created")))
}

func TestRecordEnrollment(t *testing.T) {
	m := getMetrics()
	before := testutil.ToFloat64(m.enrollmentsTotal.WithLabelValues("skipped"))
	RecordEnrollment("skipped")
	assert.Equal(t, before+1, testutil.ToFloat64(m.enrollmentsTotal.WithLabelValues("skipped")))
}
