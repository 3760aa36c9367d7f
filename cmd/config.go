package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configDir      = "./.tmp"
	configFileName = "page"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "local config commands",
}

func init() {
	configCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	configCmd.AddCommand(setConfigCmd())
	configCmd.AddCommand(showConfigCmd())
	configCmd.AddCommand(resetConfigCmd())
}

func configPath() string {
	return filepath.Join(configDir, configFileName+".yml")
}

func readLocalConfig() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath())
	v.SetConfigType("yml")

	if _, err := os.Stat(configPath()); err == nil {
		if err := v.ReadInConfig(); err != nil {
			fmt.Println("error reading config file: ", err)
		}
	}

	return v
}

// saves a key of the page config to ./.tmp/page.yml
func setConfigCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "set a config key",
		Example: "page config set database.driver postgres",
		Args:    cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				color.Red("error creating %s: %v", configDir, err)
				return
			}

			v := readLocalConfig()
			v.Set(args[0], args[1])

			if err := v.WriteConfigAs(configPath()); err != nil {
				fmt.Println("error writing config file: ", err)
				return
			}

			color.Green("%s saved", args[0])
		},
	}

	return command
}

func showConfigCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "show",
		Short: "show the local config",
		Run: func(cmd *cobra.Command, args []string) {
			v := readLocalConfig()
			keys := v.AllKeys()
			if len(keys) == 0 {
				color.Yellow("no local config in %s", configPath())
				return
			}

			for _, key := range keys {
				printField(key, fmt.Sprint(v.Get(key)))
			}
		},
	}

	return command
}

func resetConfigCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "remove the local config",
		Run: func(cmd *cobra.Command, args []string) {
			if err := os.Remove(configPath()); err != nil && !os.IsNotExist(err) {
				color.Red("error removing config: %v", err)
				return
			}

			color.Green("config reset")
		},
	}

	return command
}
