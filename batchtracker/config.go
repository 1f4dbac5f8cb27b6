package batchtracker

import (
	"github.com/Peersyst/blockscout/config/types"
)

// Config represents the configuration of the batch status tracker
type Config struct {
	// Enabled switches batch lifecycle tracking on or off
	Enabled bool `mapstructure:"Enabled"`

	// SyncInterval is the delay between tracker runs
	SyncInterval types.Duration `mapstructure:"SyncInterval"`

	// ChunkSize caps how many new batches a single discovery run registers
	ChunkSize uint64 `mapstructure:"ChunkSize"`

	// InitialBatchNumber is the last batch before tracking starts. Discovery
	// registers batches right after it when the store is empty.
	InitialBatchNumber uint64 `mapstructure:"InitialBatchNumber"`
}
