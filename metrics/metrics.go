package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func initMetrics() {
	if !initialized {
		registerer = prometheus.DefaultRegisterer
		gauges = make(map[string]*prometheus.GaugeVec)
		counters = make(map[string]*prometheus.CounterVec)
		initialized = true
	}

	registerCounter(prometheus.CounterOpts{Name: metricSyncedOperationCount}, labelNetwork, labelOperationType)
	registerGauge(prometheus.GaugeOpts{Name: metricLastProcessedBlock}, labelNetwork)
	registerCounter(prometheus.CounterOpts{Name: metricBatchTransitionCount}, labelStatus)
	registerCounter(prometheus.CounterOpts{Name: metricBatchRecoveryCount}, labelStage)
	registerCounter(prometheus.CounterOpts{Name: metricDiscoveredBatchCount})
	registerCounter(prometheus.CounterOpts{Name: metricRPCRequestCount}, labelMethod, labelSuccess)
}

// RecordSyncedOperation counts one bridge operation imported from the given
// network ("l1" or "l2").
func RecordSyncedOperation(network, operationType string) {
	counterInc(metricSyncedOperationCount, map[string]string{labelNetwork: network, labelOperationType: operationType})
}

// RecordLastProcessedBlock publishes the sync progress of the given network.
func RecordLastProcessedBlock(network string, blockNumber uint64) {
	gaugeSet(metricLastProcessedBlock, float64(blockNumber), map[string]string{labelNetwork: network})
}

// RecordBatchTransitions counts batches advanced into the given status.
func RecordBatchTransitions(status string, count int) {
	counterAdd(metricBatchTransitionCount, float64(count), map[string]string{labelStatus: status})
}

// RecordBatchRecovery counts one local state divergence detected while
// advancing the given stage.
func RecordBatchRecovery(stage string) {
	counterInc(metricBatchRecoveryCount, map[string]string{labelStage: stage})
}

// RecordDiscoveredBatches counts batches newly registered by discovery.
func RecordDiscoveredBatches(count int) {
	counterAdd(metricDiscoveredBatchCount, float64(count), map[string]string{})
}

// RecordRPCRequest counts one JSON-RPC request by method and result.
func RecordRPCRequest(method string, success bool) {
	counterInc(metricRPCRequestCount, map[string]string{labelMethod: method, labelSuccess: strconv.FormatBool(success)})
}
