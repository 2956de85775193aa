package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/MARYAMM27/portfolio-bot-go/internal/app"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/project"
	"github.com/spf13/cobra"
)

var (
	addDescription string
	addLink        string
	addFiles       []string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage stored projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openProjectStore()
		if err != nil {
			return err
		}
		defer closeStore()

		projects, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no stored projects")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tFILES")
		for _, p := range projects {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", p.ID, p.Title, len(p.Files))
		}
		return tw.Flush()
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Store a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openProjectStore()
		if err != nil {
			return err
		}
		defer closeStore()

		p := domain.Project{
			Title:       args[0],
			Description: addDescription,
			Hyperlink:   addLink,
		}
		for _, url := range addFiles {
			p.Files = append(p.Files, domain.ProjectFile{FileURL: url})
		}

		stored, err := store.Add(cmd.Context(), p)
		if err != nil {
			return err
		}
		printSuccess(cmd, "project %q stored with id %s", stored.Title, stored.ID)
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openProjectStore()
		if err != nil {
			return err
		}
		defer closeStore()

		removed, err := store.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no stored project with id %s", args[0])
		}
		printSuccess(cmd, "project %s deleted", args[0])
		return nil
	},
}

func init() {
	projectsAddCmd.Flags().StringVar(&addDescription, "description", "", "project description")
	projectsAddCmd.Flags().StringVar(&addLink, "link", "", "project hyperlink")
	projectsAddCmd.Flags().StringSliceVar(&addFiles, "file", nil, "attached file URL (repeatable)")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	rootCmd.AddCommand(projectsCmd)
}

func openProjectStore() (*project.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Redis.Enabled {
		return nil, nil, fmt.Errorf("stored projects need redis (REDIS_ENABLED=false)")
	}
	logger := newLogger()
	cacheSvc, err := app.OpenCache(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return project.NewStore(cacheSvc, logger), func() { _ = cacheSvc.Close() }, nil
}
