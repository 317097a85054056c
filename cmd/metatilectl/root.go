package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/metatilekit/internal/config"
	"github.com/joshuapare/metatilekit/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	configPath string

	// cfg is loaded by the root PersistentPreRunE.
	cfg *config.Config

	// logCloser releases the log file opened by initLogging.
	logCloser io.Closer

	// printer formats numbers with thousands separators.
	printer = message.NewPrinter(language.English)
)

var rootCmd = &cobra.Command{
	Use:   "metatilectl",
	Short: "Inspect and edit metatile projects",
	Long: `metatilectl works on metatile projects: a primary and secondary tileset
plus one map. It merges layered metatiles into composite slots, lists free and
unused slots, and reclaims slots no map cell references.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return initLogging(c)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default $"+config.EnvConfig+")")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// initLogging wires logger.L from the config. --verbose logs debug to stderr
// unless a log directory is configured.
func initLogging(c *config.Config) error {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(c.Log.Format)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := logger.Options{
		Enabled: verbose || c.Log.Dir != "",
		Level:   level,
		Format:  format,
		Dir:     c.Log.Dir,
	}
	logCloser, err = logger.Init(opts)
	return err
}

// currentConfig returns the loaded config, or defaults when the root
// pre-run hook did not run (direct runX calls in tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		printer.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprint(os.Stderr, render(errorStyle, "Error: "))
	fmt.Fprintf(os.Stderr, format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		printer.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
