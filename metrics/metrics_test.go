package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordBeforeInitIsNoOp(t *testing.T) {
	require.False(t, initialized)

	// recording without a registry must not panic, metrics are optional
	require.NotPanics(t, func() {
		RecordSyncedOperation("l1", "deposit")
		RecordLastProcessedBlock("l2", 1234)
		RecordBatchTransitions("committed", 3)
		RecordBatchRecovery("commit")
		RecordDiscoveredBatches(10)
		RecordRPCRequest("eth_getLogs", true)
	})
}
