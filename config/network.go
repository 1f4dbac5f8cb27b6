package config

import (
	"github.com/Peersyst/blockscout/log"
	"github.com/ethereum/go-ethereum/common"
)

// NetworkConfig is the configuration struct for the different environments
type NetworkConfig struct {
	L1BridgeAddr       common.Address
	L2BridgeAddr       common.Address
	L1GenBlockNumber   uint64
	L2GenBlockNumber   uint64
	InitialBatchNumber uint64
}

const (
	testnet = "testnet"
	local   = "local"
)

//nolint:gomnd
var (
	mainnetConfig = NetworkConfig{
		L1BridgeAddr:     common.HexToAddress("0x57891966931Eb4Bb6FB81430E6cE0A03AAbDe063"),
		L2BridgeAddr:     common.HexToAddress("0x11f943b2c77b743AB90f4A0Ae7d5A4e7FCA3E74F"),
		L1GenBlockNumber: 16627460,
		L2GenBlockNumber: 1,
	}
	testnetConfig = NetworkConfig{
		L1BridgeAddr:     common.HexToAddress("0x927DdFcc55164a59E0F33918D13a2D559bC10ce7"),
		L2BridgeAddr:     common.HexToAddress("0x00ff932A6d70E2B8f1Eb4919e1e09C1923E7e57b"),
		L1GenBlockNumber: 8512100,
		L2GenBlockNumber: 1,
	}
	localConfig = NetworkConfig{
		L1BridgeAddr:     common.HexToAddress("0x0165878A594ca255338adfa4d48449f69242Eb8F"),
		L2BridgeAddr:     common.HexToAddress("0x9d98deAbc42dd696Deb9e40b4f1CAB7dDBF55988"),
		L1GenBlockNumber: 1,
		L2GenBlockNumber: 1,
	}
)

func (cfg *Config) loadNetworkConfig(network string) {
	switch network {
	case testnet:
		log.Debug("Testnet network selected")
		cfg.applyNetworkConfig(testnetConfig)
	case local:
		log.Debug("Local network selected")
		cfg.applyNetworkConfig(localConfig)
	default:
		log.Debug("Mainnet network selected")
		cfg.applyNetworkConfig(mainnetConfig)
	}
}

// applyNetworkConfig spreads the environment constants over the component
// configurations.
func (cfg *Config) applyNetworkConfig(netCfg NetworkConfig) {
	cfg.NetworkConfig = netCfg
	cfg.BridgeSync.L1.BridgeAddr = netCfg.L1BridgeAddr
	cfg.BridgeSync.L1.GenBlockNumber = netCfg.L1GenBlockNumber
	cfg.BridgeSync.L2.BridgeAddr = netCfg.L2BridgeAddr
	cfg.BridgeSync.L2.GenBlockNumber = netCfg.L2GenBlockNumber
	cfg.BatchTracker.InitialBatchNumber = netCfg.InitialBatchNumber
}
