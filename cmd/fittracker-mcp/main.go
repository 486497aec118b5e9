package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/fittracker/internal/config"
	"github.com/claude/fittracker/internal/mcp"
	"github.com/claude/fittracker/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "fittracker server URL; stored reports are read over its REST API")
	configPath := flag.String("config", "", "config file for direct database access")
	envFile := flag.String("env", ".env", "path to optional .env file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittracker-mcp", Version)
		return
	}

	// stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL != "" && *configPath != "" {
		fmt.Fprintf(os.Stderr, "Error: use either -server or -config, not both\n")
		os.Exit(1)
	}

	var ds mcp.DataSource
	var db *storage.DB
	switch {
	case *serverURL != "":
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("using remote report store", "server", *serverURL)
	case *configPath != "":
		cfg, err := config.Load(*configPath, *envFile)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err = storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("using local report store", "host", cfg.Database.Host)
	default:
		log.Info("no report store configured, only compute_training_report is available")
	}

	if err := mcpserver.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		if db != nil {
			db.Close()
		}
		os.Exit(1)
	}
}
