package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/emrgen/page"
	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "page block commands",
}

func init() {
	rootCmd.AddCommand(blockCmd)
	blockCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	blockCmd.AddCommand(createBlockCmd())
	blockCmd.AddCommand(listBlocksCmd())
	blockCmd.AddCommand(moveBlockCmd())
	blockCmd.AddCommand(renumberBlocksCmd())
	blockCmd.AddCommand(completeBlockCmd())
	blockCmd.AddCommand(deleteBlockCmd())
}

func printBlocks(blocks []*model.PageBlock) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Sort Order", "Issue", "Completed At"})
	for _, b := range blocks {
		table.Append([]string{b.ID, b.Name, strconv.FormatFloat(b.SortOrder, 'f', -1, 64), deref(b.IssueID), formatTime(b.CompletedAt)})
	}

	table.Render()
}

func createBlockCmd() *cobra.Command {
	var workspaceID string
	var projectID string
	var pageID string
	var name string
	var content string
	var issueID string

	var required = []string{"workspace-id", "project-id", "page-id"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "append a block to a page",
		Example: "page block create -w <workspace-id> -P <project-id> -p <page-id> -n <name>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				req := service.CreateBlockRequest{
					WorkspaceID: workspaceID,
					ProjectID:   projectID,
					PageID:      pageID,
					Name:        name,
				}
				if cmd.Flag("content").Changed {
					req.DescriptionHTML = &content
				}
				if issueID != "" {
					req.IssueID = &issueID
				}

				block, err := client.Blocks.CreateBlock(ctx, req)
				if err != nil {
					return err
				}

				color.Green("block created with id: %s at %v", block.ID, block.SortOrder)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&workspaceID, "workspace-id", "w", "", "workspace id (required)")
	command.Flags().StringVarP(&projectID, "project-id", "P", "", "project id (required)")
	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "block name")
	command.Flags().StringVarP(&content, "content", "c", "", "html content")
	command.Flags().StringVarP(&issueID, "issue-id", "i", "", "linked issue id")

	command.Flags().SortFlags = false

	return command
}

func listBlocksCmd() *cobra.Command {
	var projectID string
	var pageID string

	var required = []string{"project-id", "page-id"}

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the blocks of a page in order",
		Example: "page block list -P <project-id> -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				blocks, err := client.Blocks.ListBlocks(ctx, projectID, pageID)
				if err != nil {
					return err
				}

				printBlocks(blocks)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "P", "", "project id (required)")
	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func moveBlockCmd() *cobra.Command {
	var blockID string
	var afterID string

	command := &cobra.Command{
		Use:     "move",
		Short:   "move a block after another block, or to the top",
		Example: "page block move -b <block-id> -a <after-block-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"block-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				block, err := client.Blocks.MoveBlock(ctx, blockID, afterID)
				if err != nil {
					return err
				}

				color.Green("block moved to %v", block.SortOrder)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&blockID, "block-id", "b", "", "block id (required)")
	command.Flags().StringVarP(&afterID, "after", "a", "", "id of the block to place it after, empty for the top")

	return command
}

func renumberBlocksCmd() *cobra.Command {
	var projectID string
	var pageID string

	var required = []string{"project-id", "page-id"}

	command := &cobra.Command{
		Use:     "renumber",
		Short:   "spread the sort orders of a page's blocks evenly",
		Example: "page block renumber -P <project-id> -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				blocks, err := client.Blocks.RenumberBlocks(ctx, projectID, pageID)
				if err != nil {
					return err
				}

				printBlocks(blocks)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "P", "", "project id (required)")
	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func completeBlockCmd() *cobra.Command {
	var blockID string
	var reopen bool

	command := &cobra.Command{
		Use:     "complete",
		Short:   "mark a block completed, closing its linked issue",
		Example: "page block complete -b <block-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"block-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				complete := !reopen
				block, err := client.Blocks.UpdateBlock(ctx, service.UpdateBlockRequest{ID: blockID, Complete: &complete})
				if err != nil {
					return err
				}

				printBlocks([]*model.PageBlock{block})
				return nil
			})
		},
	}

	command.Flags().StringVarP(&blockID, "block-id", "b", "", "block id (required)")
	command.Flags().BoolVar(&reopen, "reopen", false, "clear the completion instead")

	return command
}

func deleteBlockCmd() *cobra.Command {
	var blockID string

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a block",
		Example: "page block delete -b <block-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"block-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				if err := client.Blocks.DeleteBlock(ctx, blockID); err != nil {
					return err
				}

				color.Magenta("block deleted: %s", blockID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&blockID, "block-id", "b", "", "block id (required)")

	return command
}
