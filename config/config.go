package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/Peersyst/blockscout/batchtracker"
	"github.com/Peersyst/blockscout/bridgesync"
	"github.com/Peersyst/blockscout/db"
	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/log"
	"github.com/Peersyst/blockscout/metrics"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	Log          log.Config
	SyncDB       db.Config
	Etherman     etherman.Config
	BridgeSync   bridgesync.Config
	BatchTracker batchtracker.Config
	Metrics      metrics.Config
	NetworkConfig
}

// Load loads the configuration
func Load(configFilePath string, network string) (*Config, error) {
	var cfg Config
	viper.SetConfigType("toml")

	err := viper.ReadConfig(bytes.NewBuffer([]byte(DefaultValues)))
	if err != nil {
		return nil, err
	}
	err = viper.Unmarshal(&cfg, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()))
	if err != nil {
		return nil, err
	}
	if configFilePath != "" {
		dirName, fileName := filepath.Split(configFilePath)

		fileExtension := strings.TrimPrefix(filepath.Ext(fileName), ".")
		fileNameWithoutExtension := strings.TrimSuffix(fileName, "."+fileExtension)

		viper.AddConfigPath(dirName)
		viper.SetConfigName(fileNameWithoutExtension)
		viper.SetConfigType(fileExtension)
	}
	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix("BRIDGE_INDEXER")
	err = viper.ReadInConfig()
	if err != nil {
		_, ok := err.(viper.ConfigFileNotFoundError)
		if ok {
			log.Infof("config file not found")
		} else {
			log.Infof("error reading config file: %v", err)
			return nil, err
		}
	}

	err = viper.Unmarshal(&cfg, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()))
	if err != nil {
		return nil, err
	}

	if viper.IsSet("NetworkConfig") && network != "" {
		return nil, errors.New("network details are provided twice, in the config file (the [NetworkConfig] section) and as a flag (--network or -n). Configure them only once and try again please")
	}
	if !viper.IsSet("NetworkConfig") && network == "" {
		return nil, errors.New("network details are not provided. Please configure the [NetworkConfig] section in your config file, or provide a --network flag")
	}
	if network != "" {
		cfg.loadNetworkConfig(network)
	} else {
		cfg.applyNetworkConfig(cfg.NetworkConfig)
	}

	return &cfg, nil
}
