package main

import (
	"fmt"
	"gsc/src/db"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "gscctl",
	Short: "Operations tooling for the GSC back office",
	Long: `gscctl runs the maintenance tasks of the GSC back office against the
configured database: migrations, reference data, the draft expiry sweep and
inspection of the status workflows.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile == "" {
			return
		}
		if err := godotenv.Load(envFile); err != nil {
			warn("Could not load %s: %s", envFile, err.Error())
		}
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "dotenv file to load before running")
	rootCmd.AddCommand(migrateCmd, schemaCmd, seedCmd, expireDraftsCmd, transitionsCmd)
}

// database opens the configured connection. db.GetDb panics when the
// database is unreachable, which is turned into an error here.
func database() (gdb *gorm.DB, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("could not connect to database: %v", r)
		}
	}()
	return db.GetDb(), nil
}

func success(format string, a ...any) {
	color.New(color.FgGreen).Printf(format+"\n", a...)
}

func warn(format string, a ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, format+"\n", a...)
}
