// Command ifcgo inspects IFC models and manages their binary caches.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the state shared by all commands.
type app struct {
	configFile string
	logLevel   string
	logFormat  string
	useCache   bool
	asJSON     bool
	progress   bool

	cfg *Config
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ifcgo",
		Short: "ifcgo - IFC model parser and cache",
		Long: `ifcgo parses IFC (STEP physical file) models into a columnar store,
derives their relationship graph, property sets and spatial hierarchy, and
keeps binary caches for instant reloads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")
	flags.BoolVar(&a.useCache, "cache", false, "Load models through the configured cache")
	flags.BoolVar(&a.asJSON, "json", false, "Print JSON instead of text")
	flags.BoolVar(&a.progress, "progress", false, "Report parse progress on stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "ifcgo v%s\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
				fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			},
		},
		newParseCommand(a),
		newTreeCommand(a),
		newEntityCommand(a),
		newPropsCommand(a),
		newCacheCommand(a),
	)
	return root
}

// loadConfig reads the config file and applies explicitly set flags on top.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
