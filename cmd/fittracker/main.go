package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/fittracker/internal/batch"
	"github.com/claude/fittracker/internal/history"
	"github.com/claude/fittracker/internal/ingest/sensor"
	"github.com/claude/fittracker/internal/training"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	input := flag.String("input", "", "sensor package file (- for stdin); defaults to the built-in sample packages")
	historyDir := flag.String("history", "", "directory for the local report history database")
	recent := flag.Int("recent", 0, "print the last N recorded reports and exit (requires -history)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittracker", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	if *recent > 0 && *historyDir == "" {
		fmt.Fprintf(os.Stderr, "Error: -recent requires -history\n")
		os.Exit(1)
	}

	var hist *history.DB
	if *historyDir != "" {
		var err error
		hist, err = history.Open(*historyDir)
		if err != nil {
			log.Error("failed to open history", "dir", *historyDir, "error", err)
			os.Exit(1)
		}
		defer hist.Close()
	}

	if *recent > 0 {
		rows, err := hist.Recent(ctx, *recent)
		if err != nil {
			log.Error("failed to read history", "error", err)
			os.Exit(1)
		}
		for _, row := range rows {
			fmt.Println(row.Message)
		}
		return
	}

	pkgs, err := loadPackages(*input)
	if err != nil {
		log.Error("failed to read packages", "input", *input, "error", err)
		os.Exit(1)
	}

	var rec batch.Recorder
	if hist != nil {
		rec = hist
	}
	stats, err := batch.New(os.Stdout, rec, log).Run(ctx, pkgs)
	if err != nil {
		log.Error("batch failed", "error", err, "reports", stats.Reports)
		if hist != nil {
			_ = hist.Close()
		}
		os.Exit(1)
	}
	log.Debug("batch complete", "packages", stats.Packages, "reports", stats.Reports, "recorded", stats.Recorded)
}

func loadPackages(input string) ([]training.Package, error) {
	if input == "" {
		return training.SamplePackages(), nil
	}

	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	lines, err := sensor.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing packages: %w", err)
	}
	return sensor.Packages(lines), nil
}
