package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("badcourt-test", prometheus.NewRegistry())

	m.IncAvailabilityVerdict("accepted")
	m.IncAvailabilityVerdict("accepted")
	m.IncAvailabilityVerdict("booking_conflict")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.availabilityVerdicts.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.availabilityVerdicts.WithLabelValues("booking_conflict")))

	m.IncSchedulerTransition("reaper", "payment_timeout")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.schedulerTransitions.WithLabelValues("reaper", "payment_timeout")))
}

func TestMetrics_DBQueryErrorsIgnoreNoRows(t *testing.T) {
	m := NewWithRegistry("badcourt-test", prometheus.NewRegistry())

	m.ObserveDBQuery("select", time.Millisecond, sql.ErrNoRows)
	m.ObserveDBQuery("insert", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 0.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("insert")))
}

func TestMetrics_PoolStats(t *testing.T) {
	m := NewWithRegistry("badcourt-test", prometheus.NewRegistry())

	m.SetDBPoolStats(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3})

	assert.Equal(t, 5.0, testutil.ToFloat64(m.dbOpenConns))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbInUseConns))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbIdleConns))
}
