package cmd

import (
	"context"
	"os"

	"github.com/emrgen/page"
	"github.com/emrgen/page/internal/model"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "page log commands",
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	logCmd.AddCommand(addLogCmd())
	logCmd.AddCommand(listLogsCmd())
	logCmd.AddCommand(backlinksCmd())
}

func printLogs(logs []*model.PageLog) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Page", "Transaction", "Entity", "Entity ID", "Created At"})
	for _, l := range logs {
		table.Append([]string{l.ID, l.PageID, l.Transaction, string(l.EntityName), deref(l.EntityIdentifier), l.CreatedAt.Format(timeFormat)})
	}

	table.Render()
}

func addLogCmd() *cobra.Command {
	var workspaceID string
	var pageID string
	var entityName string
	var entityID string

	var required = []string{"workspace-id", "page-id", "entity"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "record an entity referenced by a page",
		Example: "page log add -w <workspace-id> -p <page-id> -e page_mention -i <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				entry := &model.PageLog{
					WorkspaceID: workspaceID,
					PageID:      pageID,
					EntityName:  model.EntityName(entityName),
				}
				if entityID != "" {
					entry.EntityIdentifier = &entityID
				}

				if err := client.Logs.Append(ctx, entry); err != nil {
					return err
				}

				color.Green("log added: %s", entry.ID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&workspaceID, "workspace-id", "w", "", "workspace id (required)")
	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&entityName, "entity", "e", "", "entity name, e.g. issue or page_mention (required)")
	command.Flags().StringVarP(&entityID, "entity-id", "i", "", "id of the referenced entity")

	command.Flags().SortFlags = false

	return command
}

func listLogsCmd() *cobra.Command {
	var pageID string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the log of a page",
		Example: "page log list -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"page-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				logs, err := client.Logs.List(ctx, pageID)
				if err != nil {
					return err
				}

				printLogs(logs)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func backlinksCmd() *cobra.Command {
	var pageID string

	command := &cobra.Command{
		Use:     "backlinks",
		Short:   "list the pages linking to or mentioning a page",
		Example: "page log backlinks -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"page-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				logs, err := client.Logs.Backlinks(ctx, pageID)
				if err != nil {
					return err
				}

				printLogs(logs)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}
