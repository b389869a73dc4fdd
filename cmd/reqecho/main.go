package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tommy351/reqecho/internal/cmd"
	"github.com/tommy351/reqecho/pkg/config"
	"github.com/tommy351/reqecho/pkg/server"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "reqecho"
	app.Usage = "log every HTTP request and echo a summary of it back"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "path to a config file"},
		cli.StringFlag{Name: "host", Usage: "host to listen on"},
		cli.IntFlag{Name: "port", Usage: "port to listen on"},
		cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)"},
		cli.StringFlag{Name: "log-format", Usage: "log format (json, console)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	conf, err := config.ReadConfig(&config.ReadOptions{
		File:      c.String("config"),
		Overrides: flagOverrides(c),
	})

	if err != nil {
		return err
	}

	logger := cmd.NewLogger(&conf.Log)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	s := &server.Server{Config: conf}

	if err := s.Serve(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start the server")
	}

	return nil
}

func flagOverrides(c *cli.Context) map[string]interface{} {
	overrides := map[string]interface{}{}
	flags := map[string]string{
		"host":       "server.host",
		"log-level":  "log.level",
		"log-format": "log.format",
	}

	for name, key := range flags {
		if c.IsSet(name) {
			overrides[key] = c.String(name)
		}
	}

	if c.IsSet("port") {
		overrides["server.port"] = c.Int("port")
	}

	return overrides
}
