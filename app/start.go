package app

import (
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/daemon"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string // directory of main.toml

	cfg     config.Config
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GoOIDC-Bridge web service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			var err error

			if cfg, err = config.ReadConfig(configPath); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			return logger.Init(cfg.Log)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)
