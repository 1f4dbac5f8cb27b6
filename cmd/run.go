package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Peersyst/blockscout/batchtracker"
	"github.com/Peersyst/blockscout/bridgesync"
	"github.com/Peersyst/blockscout/config"
	"github.com/Peersyst/blockscout/db"
	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/log"
	"github.com/Peersyst/blockscout/metrics"
	"github.com/urfave/cli/v2"
)

func start(ctx *cli.Context) error {
	configFilePath := ctx.String(flagCfg)
	network := ctx.String(flagNetwork)
	c, err := config.Load(configFilePath, network)
	if err != nil {
		return err
	}
	setupLog(c.Log)
	err = db.RunMigrations(c.SyncDB)
	if err != nil {
		log.Error(err)
		return err
	}

	l1EtherMan, l2EtherMan, err := newEthermans(c.Etherman)
	if err != nil {
		log.Error(err)
		return err
	}

	storage, err := db.NewStorage(c.SyncDB)
	if err != nil {
		log.Error(err)
		return err
	}

	if c.Metrics.Enabled {
		go metrics.StartMetricsHttpServer(c.Metrics)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if c.BridgeSync.L1.Enabled {
		go runSynchronizer(storage, l1EtherMan, l1EtherMan, c.BridgeSync, true)
	}
	if c.BridgeSync.L2.Enabled {
		go runSynchronizer(storage, l2EtherMan, l1EtherMan, c.BridgeSync, false)
	}
	if c.BatchTracker.Enabled {
		// marker transactions live on L1, the rollup node answers the batch queries
		tracker := batchtracker.NewTracker(storage, l1EtherMan, l2EtherMan, c.BatchTracker)
		go tracker.Start(runCtx)
	}

	// Wait for an in interrupt.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch

	cancel()
	storage.Close()
	return nil
}

func setupLog(c log.Config) {
	log.Init(c)
}

func newEthermans(c etherman.Config) (*etherman.Client, *etherman.Client, error) {
	l1EtherMan, err := etherman.NewClient(c.L1URL)
	if err != nil {
		return nil, nil, err
	}
	l2EtherMan, err := etherman.NewClient(c.L2URL)
	if err != nil {
		return l1EtherMan, nil, err
	}
	return l1EtherMan, l2EtherMan, nil
}

func runSynchronizer(storage db.Storage, etherMan *etherman.Client, l1EtherMan *etherman.Client, cfg bridgesync.Config, isL1 bool) {
	sy := bridgesync.NewSynchronizer(storage, etherMan, l1EtherMan, cfg, isL1)
	if err := sy.Sync(); err != nil {
		log.Fatal(err)
	}
}
