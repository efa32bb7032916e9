package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/flightlog/internal/config"
	"github.com/Tiliavir/flightlog/internal/logbook"
	"github.com/Tiliavir/flightlog/internal/logger"
	"github.com/Tiliavir/flightlog/internal/storage"
)

// annotationNoStore marks commands that run without opening the logbook.
const annotationNoStore = "flightlog/no-store"

var (
	cfgFile   string
	debugFlag bool
	noColor   bool

	cfg  *config.Config
	repo storage.Repository
	svc  *logbook.Service
)

var rootCmd = &cobra.Command{
	Use:   "flightlog",
	Short: "flightlog – a single-aircraft flight hours logbook",
	Long: `flightlog records flights of one aircraft by its hour meter.

Readings use hours.minutes notation: 1.30 is one hour thirty minutes.
Every flight starts where the previous one ended, and the first flight
starts at the aircraft's base hours. Data lives in ~/.flightlog/.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  openLogbook,
	PersistentPostRunE: closeLogbook,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		fmt.Fprintln(os.Stderr, colorError.Sprint("Error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.flightlog/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(aircraftCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(versionCmd)
}

// openLogbook loads the config, starts the logger and opens the configured
// repository for every command that needs it.
func openLogbook(cmd *cobra.Command, _ []string) error {
	if noColor {
		color.NoColor = true
	}

	dir, err := config.HomeDir()
	if err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		path = config.FilePath(dir)
	}
	c, err := config.LoadFrom(path, dir)
	if err != nil {
		return err
	}
	if debugFlag {
		c.Log.Debug = true
	}
	cfg = c

	if err := logger.Init(logger.Config{Debug: c.Log.Debug, Dir: dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	}
	logger.Debug("running command", "cmd", cmd.CommandPath(), "backend", c.Storage.Backend, "data", c.DataPath())

	if cmd.Annotations[annotationNoStore] != "" {
		return nil
	}
	r, err := storage.Open(c.Storage.Backend, c.DataPath())
	if err != nil {
		return err
	}
	repo = r
	svc = logbook.New(r)
	return nil
}

func closeLogbook(_ *cobra.Command, _ []string) error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo, svc = nil, nil
	return err
}
