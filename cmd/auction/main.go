package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudx-io/siteauction/config"
	"github.com/cloudx-io/siteauction/core"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "auction",
	Short: "Resolve per-unit winners for a batch of site auctions",
	Long: `Loads the site/bidder roster once, then resolves every auction of a batch:
bids are validated, adjusted by each bidder's factor, checked against the site
floor, and the highest adjusted bid wins each unit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "roster file (.json, .yaml)")
}

// loadRoster reads the validated roster from the --config file.
func loadRoster() (*core.Roster, error) {
	return config.LoadRoster(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
