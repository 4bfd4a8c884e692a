package main

import (
	"os"

	"github.com/nace/speedydisk/internal/cli"
	"github.com/nace/speedydisk/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	noColor    bool
	debug      bool
	configFile string

	ctx *cli.GlobalContext
)

func main() {
	err := rootCmd.Execute()
	ctx.Close()
	if err != nil {
		ctx.Logger.Error("%v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "speedydisk",
	Short: "SpeedyDisk - RAM volume manager",
	Long: `SpeedyDisk creates and manages memory-backed volumes.

Volumes are fast scratch space for builds, caches and temporary files. Their
contents live in RAM and are lost on eject. Volumes marked auto-create are
remembered and can be restored at login.`,
	Version:       "0.1.0",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		cfg, err := config.Load(config.Options{
			File:  configFile,
			Flags: cmd.Flags(),
		})
		if err != nil {
			return err
		}
		return ctx.Init(cfg, verbose, quiet, noColor, debug)
	},
}

func setupLogging() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: noColor})
	switch {
	case debug:
		logrus.SetLevel(logrus.DebugLevel)
	case verbose:
		logrus.SetLevel(logrus.InfoLevel)
	case quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (suppress non-error output)")
	flags.BoolVar(&noColor, "no-color", false, "Disable color output")
	flags.BoolVar(&debug, "debug", false, "Debug mode (show commands)")
	flags.StringVarP(&configFile, "config", "c", "", "Config file (default "+config.Dir()+"/config.toml)")

	// Config overrides, bound to the matching config keys
	flags.String(config.FlagName(config.KeyMountRoot), "", "Directory volumes are mounted under")
	flags.String(config.FlagName(config.KeyBackend), "", "Volume backend (auto, diskutil, tmpfs)")
	flags.String(config.FlagName(config.KeyPreferencesPath), "", "Preference database path")

	// Context is filled in PersistentPreRunE once flags are parsed
	ctx = cli.NewGlobalContext(false, false, false)

	// Register commands
	rootCmd.AddCommand(cli.NewCreateCommand(ctx))
	rootCmd.AddCommand(cli.NewEjectCommand(ctx))
	rootCmd.AddCommand(cli.NewRecreateCommand(ctx))
	rootCmd.AddCommand(cli.NewDeleteCommand(ctx))
	rootCmd.AddCommand(cli.NewResizeCommand(ctx))
	rootCmd.AddCommand(cli.NewListCommand(ctx))
	rootCmd.AddCommand(cli.NewSetCommand(ctx))
	rootCmd.AddCommand(cli.NewPathCommand(ctx))
	rootCmd.AddCommand(cli.NewRestoreCommand(ctx))
	rootCmd.AddCommand(cli.NewServeCommand(ctx))
	rootCmd.AddCommand(cli.NewLoginCommand(ctx))

	// Set up help templates
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
