// Package cmd provides the command-line interface for oslab.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/oslab/config"
	"github.com/sarchlab/oslab/logging"
	"github.com/sarchlab/oslab/simulation"
)

var (
	envFiles   []string
	dbPath     string
	userID     string
	logLevel   string
	noRecord   bool
	jsonOutput bool

	cfg    config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oslab",
	Short: "Interactive operating-system algorithm labs.",
	Long: `oslab runs CPU scheduling, page replacement, Banker's Algorithm, ` +
		`concurrency and shell labs from the terminal, or serves them over ` +
		`HTTP with "oslab serve". Work done as a user (--user or OSLAB_USER) ` +
		`counts toward that user's progress.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringSliceVar(&envFiles, "env", nil,
		"Read settings from these .env files (default .env when present)")
	f.StringVar(&dbPath, "db", "",
		"SQLite database path without the .sqlite3 extension")
	f.StringVar(&userID, "user", "", "Record progress for this user")
	f.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	f.BoolVar(&noRecord, "no-record", false,
		"Do not open a database; disables progress tracking")
	f.BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits through atexit so that open simulations are
// terminated.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error

	cfg, err = config.Load(envFiles...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}

	if flags.Changed("user") {
		cfg.UserID = userID
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger = logging.New("oslab", cfg.LogLevel)
	slog.SetDefault(logger)

	return nil
}

// buildSimulation wires the labs for a command. Only serve starts the
// monitor.
func buildSimulation(monitor bool, port int, seed uint64) (
	*simulation.Simulation,
	error,
) {
	b := simulation.MakeBuilder().
		WithOutputFileName(cfg.DBPath).
		WithUser(cfg.UserID).
		WithSeed(seed).
		WithLogger(logger)

	if monitor {
		b = b.WithMonitorPort(port)
	} else {
		b = b.WithoutMonitoring()
	}

	if noRecord {
		b = b.WithoutRecording()
	}

	return b.Build()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
