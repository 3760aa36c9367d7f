package cmd

import (
	"context"
	"os"

	"github.com/emrgen/page"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "page version commands",
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	versionCmd.AddCommand(saveVersionCmd())
	versionCmd.AddCommand(listVersionsCmd())
	versionCmd.AddCommand(restoreVersionCmd())
}

func saveVersionCmd() *cobra.Command {
	var pageID string
	var ownerID string

	var required = []string{"page-id", "owner-id"}

	command := &cobra.Command{
		Use:     "save",
		Short:   "snapshot the current content of a page",
		Example: "page version save -p <page-id> -o <owner-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				version, err := client.Versions.SaveVersion(ctx, pageID, ownerID)
				if err != nil {
					return err
				}

				color.Green("version saved: %s", version.ID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&ownerID, "owner-id", "o", "", "id of the user saving (required)")

	return command
}

func listVersionsCmd() *cobra.Command {
	var pageID string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the versions of a page",
		Example: "page version list -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"page-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				versions, err := client.Versions.ListVersions(ctx, pageID)
				if err != nil {
					return err
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"Version", "Saved At", "Owner", "Text"})
				for i, v := range versions {
					id := v.ID
					if i == 0 {
						id += " (latest)"
					}
					table.Append([]string{id, v.LastSavedAt.Format(timeFormat), v.OwnedByID, truncate(deref(v.DescriptionStripped), 40)})
				}
				table.Render()

				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func restoreVersionCmd() *cobra.Command {
	var pageID string
	var versionID string
	var ownerID string

	var required = []string{"page-id", "version-id", "owner-id"}

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore a page to a saved version",
		Example: "page version restore -p <page-id> -v <version-id> -o <owner-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				if _, err := client.Versions.RestoreVersion(ctx, pageID, versionID, ownerID); err != nil {
					return err
				}

				color.Green("page %s restored to version %s", pageID, versionID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&versionID, "version-id", "v", "", "version id (required)")
	command.Flags().StringVarP(&ownerID, "owner-id", "o", "", "id of the user restoring (required)")

	command.Flags().SortFlags = false

	return command
}
