package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "page",
	Short: "page store management tool",
	Example: `page db migrate
page create -w <workspace-id> -o <owner-id> -n <name> -c <html>
page get -p <page-id>
page list -w <workspace-id> --archived
page update -p <page-id> -c <html>
page version save -p <page-id> -o <owner-id>
page version restore -p <page-id> -v <version-id> -o <owner-id>
page block create -w <workspace-id> -P <project-id> -p <page-id> -n <name>
page worker`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(workerCmd())
	rootCmd.AddCommand(configCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
