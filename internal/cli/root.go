// Package cli wires the sauti commands: the gateway server, one-shot
// chat, balance queries, call history and prompt inspection.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/sautihq/sauti/internal/config"
	"github.com/sautihq/sauti/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sauti",
		Short: "Sauti voice and messaging assistant gateway",
		Long: "Sauti turns natural-language requests into airtime, SMS, mobile data and\n" +
			"voice calls through Africa's Talking, with a local model resolving intent.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.sauti/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newBalanceCmd())
	cmd.AddCommand(newCallsCmd())
	cmd.AddCommand(newInspectCmd())

	return cmd
}

// loadConfig reads the config file and builds the root logger from it,
// honoring the --log-level override and the optional JSON log file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return config.Config{}, err
	}

	level := logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	if cfg.Logging.File != "" {
		log, err = logging.NewWithFile(cfg.Logging.File, level)
		if err != nil {
			return config.Config{}, err
		}
	} else {
		log = logging.New(nil, level)
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
