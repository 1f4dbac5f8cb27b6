package main

import (
	"github.com/Peersyst/blockscout/config"
	"github.com/Peersyst/blockscout/db"
	"github.com/Peersyst/blockscout/log"
	"github.com/urfave/cli/v2"
)

func resetDB(ctx *cli.Context) error {
	c, err := config.Load(ctx.String(flagCfg), ctx.String(flagNetwork))
	if err != nil {
		return err
	}
	setupLog(c.Log)
	if err := db.InitOrReset(c.SyncDB); err != nil {
		log.Error(err)
		return err
	}
	log.Info("database reset and migrations rerun")
	return nil
}
