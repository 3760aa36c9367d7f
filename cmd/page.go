package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/emrgen/page"
	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/search"
	"github.com/emrgen/page/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createPageCmd())
	rootCmd.AddCommand(getPageCmd())
	rootCmd.AddCommand(listPageCmd())
	rootCmd.AddCommand(updatePageCmd())
	rootCmd.AddCommand(archivePageCmd(true))
	rootCmd.AddCommand(archivePageCmd(false))
	rootCmd.AddCommand(lockPageCmd(true))
	rootCmd.AddCommand(lockPageCmd(false))
	rootCmd.AddCommand(deletePageCmd())
	rootCmd.AddCommand(searchPageCmd())
}

func parseAccess(access string) (model.Access, error) {
	switch access {
	case "public", "":
		return model.AccessPublic, nil
	case "private":
		return model.AccessPrivate, nil
	default:
		return 0, fmt.Errorf("unknown access %q, expected public or private", access)
	}
}

func printPages(pages []*model.Page) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Access", "Locked", "Archived", "Updated At"})
	for _, p := range pages {
		table.Append([]string{
			p.ID,
			p.Name,
			p.Access.String(),
			strconv.FormatBool(p.IsLocked),
			formatTime(p.ArchivedAt),
			p.UpdatedAt.Format(timeFormat),
		})
	}

	table.Render()
}

func createPageCmd() *cobra.Command {
	var workspaceID string
	var ownerID string
	var name string
	var content string
	var parentID string
	var access string

	var required = []string{"workspace-id", "owner-id"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a page",
		Long:    `create a page with the given name and html content`,
		Example: "page create -w <workspace-id> -o <owner-id> -n <name> -c <html>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				level, err := parseAccess(access)
				if err != nil {
					return err
				}

				req := service.CreatePageRequest{
					WorkspaceID: workspaceID,
					OwnerID:     ownerID,
					Name:        name,
					Access:      level,
				}
				if cmd.Flag("content").Changed {
					req.DescriptionHTML = &content
				}
				if parentID != "" {
					req.ParentID = &parentID
				}

				p, err := client.Pages.CreatePage(ctx, req)
				if err != nil {
					return err
				}

				color.Green("page created with id: %s", p.ID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&workspaceID, "workspace-id", "w", "", "workspace id (required)")
	command.Flags().StringVarP(&ownerID, "owner-id", "o", "", "owner id (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "name of the page")
	command.Flags().StringVarP(&content, "content", "c", "", "html content of the page")
	command.Flags().StringVar(&parentID, "parent-id", "", "parent page id")
	command.Flags().StringVarP(&access, "access", "a", "public", "public or private")

	command.Flags().SortFlags = false

	return command
}

func getPageCmd() *cobra.Command {
	var pageID string

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a page",
		Example: "page get -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				p, err := client.Pages.GetPage(ctx, pageID)
				if err != nil {
					return err
				}

				printField("ID", p.ID)
				printField("Workspace", p.WorkspaceID)
				printField("Name", p.Name)
				printField("Owner", p.OwnedByID)
				printField("Parent", deref(p.ParentID))
				printField("Access", p.Access.String())
				printField("Locked", strconv.FormatBool(p.IsLocked))
				printField("Archived At", formatTime(p.ArchivedAt))
				printField("Updated At", p.UpdatedAt.Format(timeFormat))
				printField("HTML", p.DescriptionHTML)
				printField("Text", deref(p.DescriptionStripped))

				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func listPageCmd() *cobra.Command {
	var workspaceID string
	var parentID string
	var archived bool

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the pages of a workspace or the children of a page",
		Example: "page list -w <workspace-id> --archived\npage list --parent-id <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if workspaceID == "" && parentID == "" {
				color.Red("missing: --workspace-id or --parent-id")
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				var pages []*model.Page
				var err error
				if parentID != "" {
					pages, err = client.Pages.ListChildPages(ctx, parentID)
				} else {
					pages, err = client.Pages.ListPages(ctx, workspaceID, archived)
				}
				if err != nil {
					return err
				}

				printPages(pages)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&workspaceID, "workspace-id", "w", "", "workspace id")
	command.Flags().StringVar(&parentID, "parent-id", "", "parent page id")
	command.Flags().BoolVar(&archived, "archived", false, "list archived pages instead")

	return command
}

func updatePageCmd() *cobra.Command {
	var pageID string
	var userID string
	var name string
	var content string
	var access string
	var parentID string
	var root bool

	var required = []string{"page-id"}

	command := &cobra.Command{
		Use:     "update",
		Short:   "update a page",
		Example: "page update -p <page-id> -n <name> -c <html>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				req := service.UpdatePageRequest{ID: pageID}
				if userID != "" {
					req.UpdatedByID = &userID
				}
				if cmd.Flag("name").Changed {
					req.Name = &name
				}
				if cmd.Flag("content").Changed {
					req.DescriptionHTML = &content
				}
				if cmd.Flag("access").Changed {
					level, err := parseAccess(access)
					if err != nil {
						return err
					}
					req.Access = &level
				}
				if cmd.Flag("parent-id").Changed {
					req.ParentID = &parentID
				}
				req.ClearParent = root

				p, err := client.Pages.UpdatePage(ctx, req)
				if err != nil {
					return err
				}

				color.Green("page updated: %s", p.ID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "id of the user making the change")
	command.Flags().StringVarP(&name, "name", "n", "", "new name")
	command.Flags().StringVarP(&content, "content", "c", "", "new html content")
	command.Flags().StringVarP(&access, "access", "a", "", "public or private")
	command.Flags().StringVar(&parentID, "parent-id", "", "move under this page")
	command.Flags().BoolVar(&root, "root", false, "move to the workspace root")

	command.Flags().SortFlags = false

	return command
}

func archivePageCmd(archive bool) *cobra.Command {
	var pageID string

	use, short := "archive", "archive a page"
	if !archive {
		use, short = "restore", "restore an archived page"
	}

	command := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: "page " + use + " -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"page-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				var err error
				if archive {
					_, err = client.Pages.ArchivePage(ctx, pageID)
				} else {
					_, err = client.Pages.RestorePage(ctx, pageID)
				}
				if err != nil {
					return err
				}

				color.Green("page %sd: %s", use, pageID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func lockPageCmd(lock bool) *cobra.Command {
	var pageID string

	use := "lock"
	if !lock {
		use = "unlock"
	}

	command := &cobra.Command{
		Use:     use,
		Short:   use + " a page",
		Example: "page " + use + " -p <page-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"page-id"}) {
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				var err error
				if lock {
					_, err = client.Pages.LockPage(ctx, pageID)
				} else {
					_, err = client.Pages.UnlockPage(ctx, pageID)
				}
				if err != nil {
					return err
				}

				color.Green("page %sed: %s", use, pageID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id (required)")

	return command
}

func deletePageCmd() *cobra.Command {
	var pageID string
	var workspaceID string
	var erase bool

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a page and its subpages, or every page of a workspace",
		Example: "page delete -p <page-id> --erase\npage delete -w <workspace-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if pageID == "" && workspaceID == "" {
				color.Red("missing: --page-id or --workspace-id")
				return
			}

			withClient(func(ctx context.Context, client *page.Client) error {
				var ids []string
				var err error
				switch {
				case workspaceID != "":
					ids, err = client.Pages.DeleteWorkspacePages(ctx, workspaceID)
				case erase:
					ids, err = client.Pages.ErasePage(ctx, pageID)
				default:
					ids, err = client.Pages.DeletePage(ctx, pageID)
				}
				if err != nil {
					return err
				}

				color.Magenta("deleted %d pages", len(ids))
				return nil
			})
		},
	}

	command.Flags().StringVarP(&pageID, "page-id", "p", "", "page id")
	command.Flags().StringVarP(&workspaceID, "workspace-id", "w", "", "delete every page of the workspace")
	command.Flags().BoolVar(&erase, "erase", false, "remove the rows for good")

	return command
}

func searchPageCmd() *cobra.Command {
	var workspaceID string
	var archived bool
	var limit int

	command := &cobra.Command{
		Use:     "search <query>",
		Short:   "search pages by name and text",
		Example: "page search -w <workspace-id> roadmap",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withClient(func(ctx context.Context, client *page.Client) error {
				results, err := client.Pages.SearchPages(search.Query{
					Text:            args[0],
					WorkspaceID:     workspaceID,
					IncludeArchived: archived,
					Limit:           limit,
				})
				if err != nil {
					return err
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"ID", "Name", "Snippet"})
				for _, result := range results {
					table.Append([]string{result.ID, result.Name, truncate(result.Snippet, 60)})
				}
				table.Render()

				return nil
			})
		},
	}

	command.Flags().StringVarP(&workspaceID, "workspace-id", "w", "", "workspace id")
	command.Flags().BoolVar(&archived, "archived", false, "include archived pages")
	command.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of results")

	return command
}
