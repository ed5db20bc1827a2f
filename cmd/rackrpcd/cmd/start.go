package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sumup/rack-rpc/internal"
	"github.com/sumup/rack-rpc/pkg/config"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "starts rackrpcd",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.ReadConfig(false)
		if err != nil {
			return err
		}

		return internal.Start(&cfg)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
