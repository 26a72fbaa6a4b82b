package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/database"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/securenote"
)

var quarterCmd = &cobra.Command{
	Use:   "quarter",
	Short: "Show the latest quarter an inventory can be taken for",
	RunE:  runQuarter,
}

func runQuarter(cmd *cobra.Command, args []string) error {
	today := now()
	latest := calendar.LatestAllowedQuarter(today)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Latest quarter: %s (%s)\n", calendar.FormatYearMonth(latest), calendar.Label(latest))
	fmt.Fprintf(out, "Next quarter:   %s\n", calendar.FormatYearMonth(calendar.NextQuarterStart(today)))
	if info, ok := calendar.Callout(today); ok {
		fmt.Fprintf(out, "Inventory for %s is due this month\n", info.Label)
	}
	return nil
}

var genkeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Generate a key for SECURE_NOTE_KEY",
	Long: `Generate a new secure note key.

To rotate keys, put the new key first and keep the old ones after it:
  SECURE_NOTE_KEY=<new>,<old>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := securenote.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Migrations already ran while the application was opened.
		v, err := database.Version(inventory.DB)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database %s at version %d\n", appConfig.Database.Path, v)
		return nil
	},
}
