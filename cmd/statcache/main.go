package main

import (
	"fmt"
	"os"
	"statcache/internal/di"
	"statcache/internal/structures"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "statcache",
		Usage: "profile statistics cache for practice, hosting and blog sites",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   "config.yaml",
				EnvVars: []string{"STATCACHE_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "mirror logs to stdout",
			},
		},
		Action: func(cctx *cli.Context) error {
			_, err := di.InitApp(&structures.CliFlags{
				ConfigPath: cctx.String("config"),
				DebugMode:  cctx.Bool("debug"),
			})
			return err
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
