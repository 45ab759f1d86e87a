package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudx-io/siteauction/core"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint",
	Short: "Print the SHA-256 fingerprint of the roster",
	RunE: func(cmd *cobra.Command, _ []string) error {
		roster, err := loadRoster()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), core.ComputeRosterFingerprint(roster))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)
}
