package bridgesync

import (
	"github.com/Peersyst/blockscout/config/types"
	"github.com/ethereum/go-ethereum/common"
)

// ChainConfig holds the per chain settings of the bridge synchronizer.
type ChainConfig struct {
	// Enabled switches syncing of this chain on or off
	Enabled bool `mapstructure:"Enabled"`

	// BridgeAddr is the address of the bridge contract on this chain
	BridgeAddr common.Address `mapstructure:"BridgeAddr"`

	// GenBlockNumber is the block the bridge contract was deployed at.
	// Syncing starts right after it when no progress is stored.
	GenBlockNumber uint64 `mapstructure:"GenBlockNumber"`
}

// Config represents the configuration of the bridge synchronizer
type Config struct {
	// SyncInterval is the delay interval between reading new bridge information
	SyncInterval types.Duration `mapstructure:"SyncInterval"`

	// SyncChunkSize is the number of blocks to sync on each chunk
	SyncChunkSize uint64 `mapstructure:"SyncChunkSize"`

	// RetryInterval is the delay between retries of failed chain reads
	RetryInterval types.Duration `mapstructure:"RetryInterval"`

	// TokenRetryAttempts bounds the retries of ERC-20 metadata reads
	TokenRetryAttempts int `mapstructure:"TokenRetryAttempts"`

	// TokenRetryInterval is the delay between ERC-20 metadata read retries
	TokenRetryInterval types.Duration `mapstructure:"TokenRetryInterval"`

	// L1 configures the base chain side
	L1 ChainConfig `mapstructure:"L1"`

	// L2 configures the rollup side
	L2 ChainConfig `mapstructure:"L2"`
}
