package main

import (
	"os"

	"github.com/Peersyst/blockscout"
	"github.com/urfave/cli/v2"
)

func versionCmd(*cli.Context) error {
	blockscout.PrintVersion(os.Stdout)
	return nil
}
