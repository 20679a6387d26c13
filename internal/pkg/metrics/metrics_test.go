package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveJob(t *testing.T) {
	okBefore := testutil.ToFloat64(JobRuns.WithLabelValues("test_job", "ok"))
	errBefore := testutil.ToFloat64(JobRuns.WithLabelValues("test_job", "error"))

	ObserveJob("test_job", 0.1, nil)
	ObserveJob("test_job", 0.2, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(JobRuns.WithLabelValues("test_job", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(JobRuns.WithLabelValues("test_job", "error")))
}
