package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/nowesr1/snapstash/internal/config"
	"github.com/nowesr1/snapstash/internal/download"
	ioutils "github.com/nowesr1/snapstash/internal/io"
	"github.com/nowesr1/snapstash/internal/library"
	"github.com/nowesr1/snapstash/internal/logger"
)

func main() {
	// Command line flags
	var (
		exportFlag      = flag.String("export", "", "Path to memories_history.json")
		outputFlag      = flag.String("output", "", "Output directory (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file (JSON or YAML)")
		concurrencyFlag = flag.Int("concurrency", 0, "Downloads in flight (overrides config)")
		yearFlag        = flag.String("year", "", "Only download this year, e.g. 2024")
		monthFlag       = flag.String("month", "", "Only download this month, e.g. March")
		listFlag        = flag.Bool("list", false, "List years and months and exit")
		dryRunFlag      = flag.Bool("dry-run", false, "Show what would be downloaded")
		playlistFlag    = flag.Bool("playlist", false, "Create monthly playlist files")
		thumbnailsFlag  = flag.Bool("thumbnails", false, "Save image thumbnails")
		uniqueFlag      = flag.Bool("unique", false, "Append the record ID to file names")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	export := *exportFlag
	if export == "" && flag.NArg() > 0 {
		export = flag.Arg(0)
	}
	if export == "" {
		fmt.Println("snapstash - Back up your Snapchat memories")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  snapstash -export <memories_history.json> [options]")
		fmt.Println("  snapstash <memories_history.json> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: snapstash-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *concurrencyFlag != 0 {
		settings.MaxConcurrentDownloads = *concurrencyFlag
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *thumbnailsFlag {
		settings.SaveThumbnails = true
	}
	if *uniqueFlag {
		settings.UniqueFilenames = true
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log := settings.NewLogger()
	defer func() { _ = log.Sync() }()

	lib, err := library.New().ImportFile(export)
	if err != nil {
		fmt.Fprintln(os.Stderr, lib.Status)
		os.Exit(1)
	}
	fmt.Println(lib.Status)

	if *listFlag {
		printLibrary(lib)
		return
	}

	lib = selectRecords(lib, *yearFlag, *monthFlag)
	records := lib.Selected()
	if len(records) == 0 {
		fmt.Println("Nothing matches the selection.")
		return
	}

	dest := settings.DownloadsPath
	fmt.Printf("Selected %d memories → %s\n", len(records), dest)

	if *dryRunFlag {
		fetcher := download.NewFetcher(nil, settings.ToFetcherConfig(), log)
		for _, rec := range records {
			fmt.Printf("  %s  %s\n", rec.TimestampText, fetcher.Filename(rec))
		}
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, finishing transfers in flight...")
		cancel()
	}()

	if err := ioutils.EnsureDir(dest); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dest, err)
		os.Exit(1)
	}

	manager := settings.NewManager(log)
	report, err := manager.DownloadAll(ctx, records, dest, func(done, total int) {
		fmt.Printf("\r  %d/%d", done, total)
	})
	fmt.Println()
	if err != nil {
		if errors.Is(err, download.ErrPermission) {
			fmt.Fprintf(os.Stderr, "Cannot write to %s: %v\n", dest, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		}
		os.Exit(1)
	}

	for _, out := range report.Failures() {
		fmt.Printf("  ✗ %s: %v\n", out.Record.TimestampText, out.Err)
	}

	paths, err := settings.WritePlaylists(dest, report)
	if err != nil {
		log.Warn("playlists", logger.Error(err))
	}
	for _, p := range paths {
		fmt.Printf("  playlist %s\n", p)
	}

	fmt.Println(lib.ApplyReport(report).Status)
	if report.Cancelled {
		os.Exit(130)
	}
}

// selectRecords selects the records matching year and month. Empty values
// match everything.
func selectRecords(lib library.State, year, month string) library.State {
	var ids []string
	for _, y := range lib.Years {
		if year != "" && y.Year != year {
			continue
		}
		for _, m := range y.Months {
			if month != "" && m.Month != month {
				continue
			}
			for _, rec := range m.Records {
				ids = append(ids, rec.ID)
			}
		}
	}
	return lib.Select(ids...)
}

func printLibrary(lib library.State) {
	for _, y := range lib.Years {
		fmt.Printf("%s  (%s)\n", y.Year, humanize.Comma(int64(y.Count())))
		for _, m := range y.Months {
			fmt.Printf("  %-10s %s\n", m.Month, humanize.Comma(int64(m.Count())))
		}
	}
}
