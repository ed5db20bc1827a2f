package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sumup/rack-rpc/pkg/config"
)

var home string
var rootCmd = &cobra.Command{
	Use:   "rackrpcd",
	Short: "a daemon that serves JSON-RPC 2.0 requests over HTTP",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&home, config.FlagHome, "", "rackrpcd home directory")
	viper.BindPFlag(config.FlagHome, rootCmd.PersistentFlags().Lookup(config.FlagHome))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
