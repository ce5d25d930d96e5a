package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Alias1177/KrishiMitra/internal/app"
	"github.com/Alias1177/KrishiMitra/internal/config"
	"github.com/Alias1177/KrishiMitra/internal/server"
	"github.com/Alias1177/KrishiMitra/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	a, err := app.Build(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	cli := terminal.NewCLI(terminal.Options{
		Advisor:        a.Advisor,
		Output:         os.Stdout,
		DefaultCity:    cfg.DefaultCity,
		DefaultCountry: cfg.DefaultCountry,
		Serve: func(ctx context.Context) error {
			return server.NewWebAPI(server.Config{
				Addr: cfg.ServerAddr,
				Dependencies: server.Dependencies{
					Advisor: a.Advisor,
					Logger:  a.Logger,
				},
			}).Start(ctx)
		},
	})

	if err := cli.Execute(); err != nil {
		a.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
