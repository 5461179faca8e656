package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/medml/medcli/internal/buildinfo"
	"github.com/medml/medcli/internal/client/cli"
	"github.com/medml/medcli/internal/client/config"
	"github.com/medml/medcli/internal/logging"
	"github.com/medml/medcli/internal/output"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.SlogLevel(), cfg.LogFormat)

	mode, err := output.ParseColorMode(cfg.ColorMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	printer := output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(mode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger, printer)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
