// Package cli implements inventoryctl, the command line companion of the server.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/app"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/config"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/validation"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/version"
)

var (
	appConfig *config.Config
	inventory *app.App

	// Global flags
	groupID string
	dbPath  string

	// openApp and closeApp are replaced in tests.
	openApp  = func(cfg *config.Config) (*app.App, error) { return app.New(cfg, nil) }
	closeApp = func(a *app.App) error { return a.Close() }

	// now is the clock used by commands that depend on today's date.
	now = time.Now
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inventoryctl",
	Short: "Quarterly asset inventory from the command line",
	Long: "inventoryctl previews, records and reports the quarterly asset inventory\n" +
		"of a group against the same database the server uses.",
	Version:            version.Version,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: releaseApp,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(quarterCmd)
	rootCmd.AddCommand(genkeyCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(remindCmd)

	rootCmd.PersistentFlags().StringVarP(&groupID, "group", "g", "", "Group ID (UUID)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides DB_PATH)")
}

// offline commands need neither configuration nor a database
func offline(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "quarter", "genkey", "help", "completion", "inventoryctl":
		return true
	}
	return false
}

// initializeApp loads configuration and wires the services
func initializeApp(cmd *cobra.Command, args []string) error {
	if offline(cmd) {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	appConfig = cfg

	a, err := openApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	inventory = a
	return nil
}

func releaseApp(cmd *cobra.Command, args []string) error {
	if inventory == nil {
		return nil
	}
	err := closeApp(inventory)
	inventory = nil
	return err
}

// requireGroup checks the --group flag
func requireGroup() error {
	if groupID == "" {
		return fmt.Errorf("--group is required")
	}
	return validation.ValidateUUID(groupID)
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
