package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func newCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "poster",
		Usage:   "Compose and publish posts through a retro poster server",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to configuration file",
				Value:   "poster.toml",
				Sources: cli.EnvVars("POSTER_CONFIG"),
			},
		},
		Before:   r.Setup,
		Commands: r.register(),
	}
}

func main() {
	_ = godotenv.Load()

	if err := newCommand(NewRunner(RunnerOpts{})).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "poster: %v\n", err)
		os.Exit(1)
	}
}
