package main

import (
	"github.com/spf13/cobra"

	"pet-care-simulator/internal/config"
	"pet-care-simulator/internal/platform/logger"
)

var configFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "petcare",
		Short:         "Pet care simulator API",
		Long:          `Servicio HTTP para cuidar mascotas virtuales: alimentar, pasear, curar y verlas envejecer.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newTokenCmd())

	return cmd
}

// loadConfig aplica defaults, archivo, entorno y flags, en ese orden.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyFlags(cmd.Flags(), &cfg); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
}
