package main

import (
	"fmt"
	"gsc/src/boot"
	"gsc/src/common"
	"gsc/src/lib/mailer"
	"gsc/src/lifecycle"
	"gsc/src/notifications"

	"ariga.io/atlas-provider-gorm/gormschema"
	"github.com/spf13/cobra"
)

var (
	seedFile    string
	schemaDialect string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := database()
		if err != nil {
			return err
		}
		if err := boot.Migrate(gdb); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		success("Migrated %d tables", len(boot.Models()))
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the DDL of the models for atlas",
	Long: `schema prints the SQL that describes every persisted model. Point an
atlas "external_schema" data source at this command to diff migrations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stmts, err := gormschema.New(schemaDialect).Load(boot.Models()...)
		if err != nil {
			return fmt.Errorf("could not load models: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), stmts)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load countries, visa types, required documents and exchange rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, err := common.LoadFixtures(seedFile)
		if err != nil {
			return err
		}
		gdb, err := database()
		if err != nil {
			return err
		}
		result, err := common.Seed(gdb, fixtures)
		if err != nil {
			return err
		}
		success("Seeded %d countries, %d visa types, %d documents, %d exchange rates",
			result.Countries, result.VisaTypes, result.Documents, result.ExchangeRates)
		return nil
	},
}

var expireDraftsCmd = &cobra.Command{
	Use:   "expire-drafts",
	Short: "Expire visa application drafts left untouched past their TTL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := database()
		if err != nil {
			return err
		}
		dispatcher := notifications.NewDispatcher(gdb, mailer.FromConfig(), common.Publishers()...)
		defer dispatcher.Wait()
		engine := lifecycle.NewEngine(gdb, dispatcher)

		task, err := common.SweepStaleDrafts(cmd.Context(), gdb, engine, "cli")
		if err != nil {
			return err
		}
		if task.Failed > 0 {
			warn("%d drafts could not be expired, see logs", task.Failed)
		}
		success("Expired %d drafts older than %s", task.Processed, common.DraftTTL(gdb))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixtures file (built-in defaults when empty)")
	schemaCmd.Flags().StringVar(&schemaDialect, "dialect", "postgres", "SQL dialect of the generated schema")
}
