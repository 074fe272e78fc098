package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDecision(t *testing.T) {
	before := testutil.ToFloat64(LinkDecisions.WithLabelValues("3", "create"))
	RecordDecision(3, "create")
	RecordDecision(3, "create")
	assert.Equal(t, before+2, testutil.ToFloat64(LinkDecisions.WithLabelValues("3", "create")))
}

func TestRecordRejection(t *testing.T) {
	before := testutil.ToFloat64(AdmissionRejections.WithLabelValues("1", "too_small"))
	RecordRejection(1, "too_small")
	assert.Equal(t, before+1, testutil.ToFloat64(AdmissionRejections.WithLabelValues("1", "too_small")))
}

func TestRecordPass(t *testing.T) {
	t.Run("completed pass is not an error", func(t *testing.T) {
		before := testutil.ToFloat64(PassErrors.WithLabelValues("7"))
		RecordPass(7, "completed", 10*time.Millisecond, nil)
		assert.Equal(t, before, testutil.ToFloat64(PassErrors.WithLabelValues("7")))
	})

	t.Run("failed pass increments errors", func(t *testing.T) {
		before := testutil.ToFloat64(PassErrors.WithLabelValues("7"))
		RecordPass(7, "completed", time.Second, errors.New("scan failed"))
		assert.Equal(t, before+1, testutil.ToFloat64(PassErrors.WithLabelValues("7")))
	})
}

func TestRecordApplyError(t *testing.T) {
	before := testutil.ToFloat64(ApplyErrors.WithLabelValues("symlink"))
	RecordApplyError("symlink")
	assert.Equal(t, before+1, testutil.ToFloat64(ApplyErrors.WithLabelValues("symlink")))
}

func TestSetRegistryRecords(t *testing.T) {
	SetRegistryRecords(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(RegistryRecords))
	SetRegistryRecords(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(RegistryRecords))
}

func TestRecordWatchEvent(t *testing.T) {
	before := testutil.ToFloat64(WatchEvents.WithLabelValues("0", "delete"))
	RecordWatchEvent(0, "delete")
	assert.Equal(t, before+1, testutil.ToFloat64(WatchEvents.WithLabelValues("0", "delete")))
}

func TestLinksApplied(t *testing.T) {
	before := testutil.ToFloat64(LinksApplied)
	RecordLinkApplied()
	assert.Equal(t, before+1, testutil.ToFloat64(LinksApplied))
}
