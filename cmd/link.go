package cmd

import (
	"context"

	"github.com/emrgen/page"
	"github.com/emrgen/page/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "link pages to projects, teams, labels and favorites",
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	linkCmd.AddCommand(addLinkCmd())
	linkCmd.AddCommand(removeLinkCmd())
	linkCmd.AddCommand(listLinksCmd())
}

type linkTarget struct {
	workspaceID string
	pageID      string
	projectID   string
	teamID      string
	labelID     string
	userID      string
}

func (l *linkTarget) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&l.pageID, "page-id", "p", "", "page id")
	cmd.Flags().StringVarP(&l.projectID, "project-id", "P", "", "project id")
	cmd.Flags().StringVarP(&l.teamID, "team-id", "t", "", "team id")
	cmd.Flags().StringVarP(&l.labelID, "label-id", "l", "", "label id")
	cmd.Flags().StringVarP(&l.userID, "user-id", "u", "", "user id, for favorites")
}

func addLinkCmd() *cobra.Command {
	var target linkTarget

	command := &cobra.Command{
		Use:     "add",
		Short:   "link a page",
		Example: "page link add -w <workspace-id> -p <page-id> -P <project-id>\npage link add -w <workspace-id> -p <page-id> -P <project-id> -u <user-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"workspace-id", "page-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				var err error
				switch {
				case target.userID != "":
					_, err = client.Associations.Favorite(ctx, target.workspaceID, target.projectID, target.userID, target.pageID)
				case target.projectID != "":
					_, err = client.Associations.AddToProject(ctx, target.workspaceID, target.projectID, target.pageID)
				case target.teamID != "":
					_, err = client.Associations.AddToTeam(ctx, target.workspaceID, target.teamID, target.pageID)
				case target.labelID != "":
					_, err = client.Associations.AddLabel(ctx, target.workspaceID, target.pageID, target.labelID)
				default:
					color.Red("missing: one of --project-id --team-id --label-id --user-id")
					return nil
				}
				if err != nil {
					return err
				}

				color.Green("link added")
				return nil
			})
		},
	}

	command.Flags().StringVarP(&target.workspaceID, "workspace-id", "w", "", "workspace id (required)")
	target.bind(command)
	command.Flags().SortFlags = false

	return command
}

func removeLinkCmd() *cobra.Command {
	var target linkTarget

	command := &cobra.Command{
		Use:     "remove",
		Short:   "unlink a page",
		Example: "page link remove -p <page-id> -t <team-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"page-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				var err error
				switch {
				case target.userID != "":
					err = client.Associations.Unfavorite(ctx, target.userID, target.pageID)
				case target.projectID != "":
					err = client.Associations.RemoveFromProject(ctx, target.projectID, target.pageID)
				case target.teamID != "":
					err = client.Associations.RemoveFromTeam(ctx, target.teamID, target.pageID)
				case target.labelID != "":
					err = client.Associations.RemoveLabel(ctx, target.pageID, target.labelID)
				default:
					color.Red("missing: one of --project-id --team-id --label-id --user-id")
					return nil
				}
				if err != nil {
					return err
				}

				color.Green("link removed")
				return nil
			})
		},
	}

	target.bind(command)
	command.Flags().SortFlags = false

	return command
}

func listLinksCmd() *cobra.Command {
	var target linkTarget

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the pages of a project, team or user's favorites, or the labels of a page",
		Example: "page link list -P <project-id>\npage link list -u <user-id>\npage link list -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client *page.Client) error {
				var pages []*model.Page
				var err error
				switch {
				case target.userID != "":
					pages, err = client.Associations.ListFavoritePages(ctx, target.userID)
				case target.projectID != "":
					pages, err = client.Associations.ListProjectPages(ctx, target.projectID)
				case target.teamID != "":
					pages, err = client.Associations.ListTeamPages(ctx, target.teamID)
				case target.pageID != "":
					labels, err := client.Associations.ListLabels(ctx, target.pageID)
					if err != nil {
						return err
					}
					for _, label := range labels {
						printField("Label", label.LabelID)
					}
					return nil
				default:
					color.Red("missing: one of --project-id --team-id --user-id --page-id")
					return nil
				}
				if err != nil {
					return err
				}

				printPages(pages)
				return nil
			})
		},
	}

	target.bind(command)
	command.Flags().SortFlags = false

	return command
}
