package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jroosing/zonegen/internal/config"
	"github.com/jroosing/zonegen/internal/database"
	"github.com/jroosing/zonegen/internal/logging"
	"github.com/jroosing/zonegen/internal/resolve"
	"github.com/jroosing/zonegen/internal/session"
	"github.com/jroosing/zonegen/internal/zonefile"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML configuration file (or set ZONEGEN_CONFIG)")
		dir         = flag.String("dir", "", "Directory where the zone files are generated and the SQLite database is stored")
		jsonLogs    = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print the version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("zonegen %s\n", version)
		return
	}

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *dir != "" {
		cfg.Dir = *dir
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run drives one session: apply commands, then regenerate the zone files
// from committed state.
func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("cannot open database file %s: %w", cfg.DatabasePath(), err)
	}
	defer db.Close()

	if err := db.Health(); err != nil {
		return fmt.Errorf("database %s is not usable: %w", cfg.DatabasePath(), err)
	}
	if schema, err := db.SchemaVersion(); err == nil {
		logger.Debug("database ready", "path", cfg.DatabasePath(), "schema_version", schema)
	}

	var lines session.LineReader
	if session.IsTerminal(os.Stdin) {
		lines = session.NewTerminalReader(os.Stdin, os.Stdout, cfg.Prompt)
	} else {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupt)
		sr := session.NewScannerReader(os.Stdin, interrupt)
		defer sr.Close()
		lines = sr
	}

	s := &session.Session{
		Store:    db,
		Resolver: resolve.PublicSuffix{},
		Out:      os.Stdout,
		Logger:   logger,
		Version:  version,
	}
	if err := s.Run(lines); err != nil {
		return err
	}

	return zonefile.Dump(db, cfg.Dir, logger)
}
