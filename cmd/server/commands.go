package main

import (
	"fmt"
	"strings"

	"github.com/alimgiray/familytree/internal/repositories"
	"github.com/alimgiray/familytree/internal/services"
	"github.com/alimgiray/familytree/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "server",
		Short:        "Family tree API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE:  runMigrate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with a sample four-generation family",
		RunE:  runSeed,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database is up to date")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	seeder := services.NewSeedService(repositories.NewPersonRepository(db), repositories.NewRelationshipRepository(db))
	result, err := seeder.Seed()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %d persons and %d relationships\n", result.Persons, result.Relationships)
	for i, generation := range result.Generations {
		fmt.Fprintf(out, "  Generation %d: %s\n", i+1, strings.Join(generation, ", "))
	}
	fmt.Fprintf(out, "Try: GET /persons/%s/family_tree\n", result.RootPersonID)
	fmt.Fprintf(out, "Try: GET /persons/%s/ancestors\n", result.FirstChildID)
	return nil
}
