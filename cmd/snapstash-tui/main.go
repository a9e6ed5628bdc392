package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nowesr1/snapstash/internal/config"
	"github.com/nowesr1/snapstash/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (JSON or YAML)")
	flag.Parse()

	path := *configFlag
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Anything on stderr would tear the alternate screen.
	if settings.LogFile == "" {
		settings.LogFile = filepath.Join(os.TempDir(), "snapstash-tui.log")
	}
	log := settings.NewLogger()
	defer func() { _ = log.Sync() }()

	if err := tui.Run(settings, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
