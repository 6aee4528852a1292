package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/homebox/lanmap/internal/runner"
	"github.com/homebox/lanmap/pkg/gateway"
	"github.com/projectdiscovery/gologger"
)

func main() {
	options := runner.ParseOptions()

	r, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		gologger.Info().Msgf("shutting down...")
		cancel()
	}()

	err = r.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, runner.ErrWrongGateway):
		gologger.Error().Msgf("%s\n", err)
		os.Exit(1)
	case errors.Is(err, gateway.ErrNoneReachable):
		gologger.Error().Msgf("%s\n", err)
		os.Exit(2)
	default:
		gologger.Fatal().Msgf("Could not run lanmap: %s\n", err)
	}
}
