package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/kinetic/internal/app"
	"github.com/meltforce/kinetic/internal/config"
	"github.com/meltforce/kinetic/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remote := flag.String("remote", "", "kinetic server URL; serve tools from it instead of a local hub")
	apiKey := flag.String("api-key", os.Getenv("KINETIC_AUTH_API_KEY"), "API key for -remote")
	email := flag.String("email", os.Getenv("KINETIC_EMAIL"), "sign in with this email when no session is stored")
	password := flag.String("password", os.Getenv("KINETIC_PASSWORD"), "password for -email")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("kinetic-mcp", Version)
		return
	}

	// stdout carries the protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *remote != "" {
		ds = mcp.NewHTTPClient(*remote, *apiKey)
		log.Info("serving remote hub", "url", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		ctx := context.Background()
		a, err := app.Open(ctx, cfg, app.Options{}, log)
		if err != nil {
			log.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer a.Close()

		if a.Hub.User.Get() == nil {
			if *email == "" {
				log.Error("no stored session; pass -email and -password")
				os.Exit(1)
			}
			if a.Hub.SignIn(ctx, *email, *password) == nil {
				log.Error("sign in failed", "email", *email)
				os.Exit(1)
			}
		}
		ds = mcp.HubSource{Hub: a.Hub}
	}

	if err := server.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
