// Copyright 2025 The Typeahead Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the typeahead suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

Typeahead provides fast prefix suggestions over contact-style records using
a character trie with per-node ranked caches. It can operate as a
MessagePack IPC server for integration with other processes, or as an
interactive CLI for testing and debugging.

Records are ranked frequency first with recency as the tie break, so the
entries a user picks most often surface first, and equally frequent entries
favor the most recently updated. A bounded Levenshtein fallback can answer
queries whose prefix matches nothing, which keeps typos from producing
empty result lists on small datasets.

# Usage

Start the server with a dataset:

	typeahead -data contacts.csv

Load several datasets through a manifest and enable debug mode:

	typeahead -manifest sources.yml -d

Run in CLI mode for interactive testing:

	typeahead -c -data contacts.csv -limit 10

Datasets are id,name,address CSV files or JSONL files with name/address
fields. Every record becomes one suggestion keyed by its normalized
"name, address" text; repeats of the same record bump its frequency.

# Configuration

Runtime configuration is managed through a TOML file:

	[index]
	cache_size = 10
	fuzzy_fallback = true

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60

	[cli]
	default_limit = 5

	[data]
	manifest = ""

The config file is automatically created with defaults if it doesn't exist.
Flags set explicitly on the command line override the file's values.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests are
processed synchronously with microsecond timing information included in
responses.

Send a suggestion request:

	{"id": "req1", "op": "complete", "p": "jane", "l": 5}

Receive ranked suggestions:

	{"id": "req1", "s": [{"w": "Jane Doe, 12 Oak St", "r": 1}], "c": 1, "t": 145}

Mutation and management ops insert or delete records, load dataset files
and report index counters:

	{"id": "m1", "op": "insert", "text": "Mae West, 1 Main St"}
	{"id": "l1", "op": "load", "path": "more.csv", "format": "csv"}
	{"id": "s1", "op": "stats"}

# Server Mode

The default mode starts a MessagePack IPC server that processes requests
from stdin and writes responses to stdout. This design enables integration
with editors, launchers and other applications through process
communication.

	srv := server.NewStdio(idx, loader, clock, appConfig)
	err := srv.Start()

# CLI Mode

CLI mode provides an interactive interface for testing and debugging. It
reads prefixes from stdin and displays suggestions with frequency
information; colon commands (:insert, :delete, :load, :stats, ...) mutate
and inspect the index without restarting.

	inputHandler := cli.NewInputHandler(idx, loader, clock, appConfig)
	err := inputHandler.Start()

# Suggestion Engine

The core functionality is provided by the suggest package, which implements
a character trie with one read/write lock and one bounded ranked cache per
node, over an append-only record store.

	idx, err := suggest.New(cacheSize)
	id, err := idx.Insert("Jane Doe, 12 Oak St", ts)
	results, err := idx.Autocomplete("jane", 5)

Multiple goroutines may insert, delete and query concurrently; lock scope
is a single node at a time.

# Command Line Flags

The following flags control application behavior:

	-data string
	    Dataset file to load at startup (csv or jsonl)
	-manifest string
	    YAML manifest listing several dataset files
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return (default from config)
	-fuzzy
	    Toggle the fuzzy fallback for missed prefixes
	-cache int
	    Per-node ranked cache size
	-config string
	    Custom config file path
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/typeahead/internal/cli"
	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/ingest"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "typeahead"
	gh      = "https://github.com/bastiangx/typeahead"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	dataFile := flag.String("data", "", "Dataset file to load at startup (csv or jsonl)")
	manifestPath := flag.String("manifest", "", "YAML manifest listing several dataset files")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	fuzzy := flag.Bool("fuzzy", defaultConfig.Index.FuzzyFallback, "Toggle the fuzzy fallback for missed prefixes")
	cacheSize := flag.Int("cache", defaultConfig.Index.CacheSize, "Per-node ranked cache size")
	configPath := flag.String("config", "", "Custom config file path")

	flag.Parse()

	if *showVersion {
		vlog := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		vlog.SetStyles(styles)

		vlog.Print("")
		vlog.Print("[ Typeahead ] Serves really fast contact suggestions!")
		vlog.Print("", "version", Version)
		vlog.Print("")
		vlog.Print("use -h or --help to see available options")
		vlog.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	// flags set explicitly on the command line beat the file's values
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "limit":
			appConfig.CLI.DefaultLimit = *limit
		case "fuzzy":
			appConfig.Index.FuzzyFallback = *fuzzy
		case "cache":
			appConfig.Index.CacheSize = *cacheSize
		}
	})

	idx, err := suggest.New(appConfig.Index.CacheSize)
	if err != nil {
		log.Fatalf("Failed to create index: %v", err)
		os.Exit(1)
	}

	clock := &ingest.Clock{}
	loader := ingest.NewLoader(idx, clock)

	manifest := *manifestPath
	manifestBase := filepath.Dir(manifest)
	if manifest == "" && appConfig.Data.Manifest != "" {
		// a manifest named by the config resolves next to the config file
		manifest = appConfig.Data.Manifest
		if !filepath.IsAbs(manifest) && activePath != "" {
			manifest = filepath.Join(filepath.Dir(activePath), manifest)
		}
		manifestBase = filepath.Dir(manifest)
	}

	switch {
	case manifest != "":
		m, err := ingest.ReadManifest(manifest)
		if err != nil {
			log.Fatalf("Failed to read manifest: %v", err)
			os.Exit(1)
		}
		stats, err := m.Load(manifestBase, loader)
		if err != nil {
			log.Fatalf("Failed to load datasets: %v", err)
			os.Exit(1)
		}
		log.Debugf("Manifest loaded: %d records from %d lines (%d skipped)", stats.Loaded, stats.Lines, stats.Skipped)
	case *dataFile != "":
		stats, err := loader.LoadFile(*dataFile, ingest.FormatUnknown)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", *dataFile, err)
			os.Exit(1)
		}
		log.Debugf("Dataset loaded: %d records from %d lines (%d skipped)", stats.Loaded, stats.Lines, stats.Skipped)
	default:
		log.Warn("No dataset specified, starting with an empty index...")
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", appConfig.Server.MinPrefix,
			"maxPrefix", appConfig.Server.MaxPrefix,
			"limit", appConfig.CLI.DefaultLimit,
			"fuzzy", appConfig.Index.FuzzyFallback)

		inputHandler := cli.NewInputHandler(idx, loader, clock, appConfig)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewStdio(idx, loader, clock, appConfig)

	showStartupInfo(idx.Size())

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(liveCount int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" Typeahead ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("live suggestions: [ %d ]", liveCount)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
