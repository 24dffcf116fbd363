package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/gophblog/internal/blogctl"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/rs/zerolog/log"
)

func main() {
	app := blogctl.NewApp(os.Stdin, os.Stdout, repomanager.Open)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("blogctl failed")
		cancel()
		os.Exit(1)
	}
}
