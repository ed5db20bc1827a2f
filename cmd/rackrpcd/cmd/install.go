package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sumup/rack-rpc/pkg/config"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "installs rackrpcd",
	RunE: func(cmd *cobra.Command, args []string) error {
		install()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func install() {
	fmt.Println("Welcome to the rackrpcd interactive installer.")
	home := prompt(
		"Where do you want to store your rackrpcd configuration files?",
		viper.GetString(config.FlagHome),
		"",
	)
	portStr := prompt(
		"On what port should rackrpcd listen for JSON-RPC requests?",
		strconv.Itoa(viper.GetInt(config.FlagRPCPort)),
		"",
	)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		fmt.Println("Invalid port, using the default.")
		port = viper.GetInt(config.FlagRPCPort)
	}
	rpcPath := prompt(
		"At what path should rackrpcd serve JSON-RPC requests?",
		viper.GetString(config.FlagRPCPath),
		"",
	)

	fmt.Print("Creating home directory...")
	maybeBail(os.MkdirAll(home, os.ModeDir|os.ModePerm))
	fmt.Println(" Done.")

	fmt.Print("Writing config file...")
	viper.Set(config.FlagHome, home)
	viper.Set(config.FlagRPCPort, port)
	viper.Set(config.FlagRPCPath, rpcPath)
	viper.SetConfigFile(path.Join(home, config.DefaultConfigFile))
	maybeBail(viper.WriteConfig())
	fmt.Println(" Done.")
	fmt.Printf("You're all set! To start your server run rackrpcd --home %s start.\n", home)
}

func prompt(text string, def string, choices string) string {
	choiceMap := make(map[string]bool)
	allowed := strings.Split(choices, "/")
	for _, choice := range allowed {
		choiceMap[choice] = true
	}

	var scan func() string
	scan = func() string {
		scanner := bufio.NewScanner(os.Stdin)
		if def == "" {
			fmt.Printf("%s", text)
		} else {
			if choices == "" {
				fmt.Printf("%s [%s]: ", text, def)
			} else {
				fmt.Printf("%s [%s] (default %s): ", text, choices, def)
			}
		}
		scanner.Scan()
		out := strings.TrimSpace(scanner.Text())
		if out == "" {
			out = def
		}

		if choices != "" && !choiceMap[out] {
			fmt.Println("Invalid choice, please try again")
			return scan()
		}

		return out
	}

	return scan()
}

func maybeBail(err error) {
	if err == nil {
		return
	}

	fmt.Printf(" Failed! Reason: %s\n", err)
	os.Exit(1)
}
