package metrics

const (
	defaultMetricsEndpoint = "/metrics"
)

// Metric types
const (
	typeGauge   = "gauge"
	typeCounter = "counter"
)

// Metric names and labels
const (
	prefix = "bridge_indexer_"

	prefixSync                 = prefix + "sync_"
	metricSyncedOperationCount = prefixSync + "operation_count"
	metricLastProcessedBlock   = prefixSync + "last_processed_block"
	labelNetwork               = "network"
	labelOperationType         = "type"

	prefixBatch                = prefix + "batch_"
	metricBatchTransitionCount = prefixBatch + "transition_count"
	metricBatchRecoveryCount   = prefixBatch + "recovery_count"
	metricDiscoveredBatchCount = prefixBatch + "discovered_count"
	labelStatus                = "status"
	labelStage                 = "stage"

	metricRPCRequestCount = prefix + "rpc_request_count"
	labelMethod           = "method"
	labelSuccess          = "success"
)
