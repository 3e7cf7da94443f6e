package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMetrics exercises the enabled-gate lifecycle in a single test
// function: InitRegistry flips package-level state that nothing resets, so
// the disabled state is checked first and every recorder is then exercised
// against the same registry.
func TestMetrics(t *testing.T) {
	t.Run("DisabledBeforeInit", func(t *testing.T) {
		assert.False(t, IsEnabled())
		assert.Nil(t, Handler())

		// Recorders must be no-ops while disabled, not panic on nil collectors.
		ObserveOperation("save", 0, time.Millisecond)
		RecordSavedBytes(10)
		RecordLoadedBytes(10)
		UploadSessionOpened()
		UploadSessionClosed()
		UploadSessionExpired()
	})

	InitRegistry()

	t.Run("EnabledAfterInit", func(t *testing.T) {
		assert.True(t, IsEnabled())
		require.NotNil(t, Handler())
	})

	t.Run("ObserveOperationIncrementsCounterAndHistogram", func(t *testing.T) {
		ObserveOperation("save", 0, 5*time.Millisecond)
		assert.Equal(t, float64(1), testutil.ToFloat64(operationsTotal.WithLabelValues("save", "0")))
	})

	t.Run("RecordSavedAndLoadedBytes", func(t *testing.T) {
		before := testutil.ToFloat64(savedBytesTotal)
		RecordSavedBytes(128)
		assert.Equal(t, before+128, testutil.ToFloat64(savedBytesTotal))

		RecordSavedBytes(0) // no-op, guarded by n <= 0
		assert.Equal(t, before+128, testutil.ToFloat64(savedBytesTotal))

		beforeLoaded := testutil.ToFloat64(loadedBytesTotal)
		RecordLoadedBytes(64)
		assert.Equal(t, beforeLoaded+64, testutil.ToFloat64(loadedBytesTotal))
	})

	t.Run("UploadSessionGaugeAndExpiryCounter", func(t *testing.T) {
		before := testutil.ToFloat64(activeUploads)
		UploadSessionOpened()
		assert.Equal(t, before+1, testutil.ToFloat64(activeUploads))

		beforeExpiries := testutil.ToFloat64(sessionExpiries)
		UploadSessionClosed()
		UploadSessionExpired()
		assert.Equal(t, before, testutil.ToFloat64(activeUploads))
		assert.Equal(t, beforeExpiries+1, testutil.ToFloat64(sessionExpiries))
	})
}
