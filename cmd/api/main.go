package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "myhome",
		Usage:   "Residential community service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return runServer(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations and exit",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return runMigrate(ctx)
				},
			},
		},
		DefaultCommand: "server",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("myhome: %v", err)
	}
}
