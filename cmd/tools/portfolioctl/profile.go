package main

import (
	"encoding/json"
	"fmt"

	"github.com/MARYAMM27/portfolio-bot-go/internal/app"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the profile document",
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored profile document with a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readProfile(args[0])
		if err != nil {
			return err
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		if err := repo.Save(cmd.Context(), p); err != nil {
			return err
		}
		printSuccess(cmd, "profile %q imported as %s", p.Name, repo.DocumentID())
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile document",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		p, err := repo.Load(cmd.Context())
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("no profile stored under %s", repo.DocumentID())
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

func init() {
	profileCmd.AddCommand(profileImportCmd)
	profileCmd.AddCommand(profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}

func openRepository() (*profile.Repository, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger()
	dbSvc, err := app.OpenDatabase(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app.NewRepository(dbSvc, cfg, logger), func() { _ = dbSvc.Close() }, nil
}
