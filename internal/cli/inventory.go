package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/report"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/service"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/validation"
)

var (
	previewMonth string

	saveMonth string
	saveActor string
	saveItems []string

	historyFrom string
	historyTo   string

	chartOutput string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the prefilled inventory of a quarter",
	Long: `Show the proposed inventory of a quarter without saving anything.

Examples:
  inventoryctl preview -g <group>
  inventoryctl preview -g <group> --month 2026-06`,
	RunE: runPreview,
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Record the inventory of a quarter",
	Long: `Record confirmed raw amounts for a quarter, replacing any earlier record.

Each --item is <assetId>=<amount>. Equities take a share count, foreign
currency an amount in that currency, everything else yen.

Examples:
  inventoryctl save -g <group> --month 2026-09 --actor alice \
    --item 3f0c...=1500000 --item 9a1e...=100`,
	RunE: runSave,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded inventories, newest first",
	RunE:  runHistory,
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write the inventory history chart as an HTML page",
	RunE:  runChart,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Notify every group that has not taken the current inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := inventory.Reminder.Run(getContext())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d group(s) reminded\n", n)
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewMonth, "month", "", "Month (YYYY-MM), defaults to the latest quarter")

	saveCmd.Flags().StringVar(&saveMonth, "month", "", "Month (YYYY-MM)")
	saveCmd.Flags().StringVar(&saveActor, "actor", "", "Who takes the inventory")
	saveCmd.Flags().StringArrayVar(&saveItems, "item", nil, "Confirmed amount as <assetId>=<amount>")

	for _, c := range []*cobra.Command{historyCmd, chartCmd} {
		c.Flags().StringVar(&historyFrom, "from", "", "First month (YYYY-MM)")
		c.Flags().StringVar(&historyTo, "to", "", "Last month (YYYY-MM)")
	}
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "inventory-history.html", "Output file")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := requireGroup(); err != nil {
		return err
	}

	svc := inventory.InventoryService
	quarter := svc.LatestAllowedQuarter()
	if previewMonth != "" {
		parsed, err := calendar.ParseYearMonth(previewMonth)
		if err != nil {
			return err
		}
		quarter = parsed
	}

	preview, err := svc.Preview(getContext(), groupID, quarter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Inventory %s\n\n", preview.QuarterLabel)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ASSET\tCATEGORY\tSUBTYPE\tDESCRIPTION\tRAW\tYEN\tSOURCE")
	total := decimal.Zero
	for _, row := range preview.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Asset.ID, row.Asset.Category, row.Asset.Subtype, row.Asset.Description,
			row.ProposedRawAmount, service.FormatYen(row.ProposedAmountYen), row.Source)
		total = total.Add(row.ProposedAmountYen)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %s\n", service.FormatYen(total))
	return nil
}

// parseItems converts --item flags into a save request
func parseItems(raw []string) ([]request.SaveInventoryItem, error) {
	items := make([]request.SaveInventoryItem, 0, len(raw))
	for _, s := range raw {
		id, amount, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("item %q must be <assetId>=<amount>", s)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("item %q: invalid amount: %w", s, err)
		}
		items = append(items, request.SaveInventoryItem{AssetID: strings.TrimSpace(id), RawAmount: value})
	}
	return items, nil
}

func runSave(cmd *cobra.Command, args []string) error {
	if err := requireGroup(); err != nil {
		return err
	}

	items, err := parseItems(saveItems)
	if err != nil {
		return err
	}
	req := request.SaveInventoryRequest{Month: saveMonth, ActorID: saveActor, Items: items}
	if err := validation.ValidateSaveInventory(req); err != nil {
		return err
	}

	quarter, err := calendar.ParseYearMonth(req.Month)
	if err != nil {
		return err
	}

	confirmed := make([]model.SaveItem, len(req.Items))
	for i, item := range req.Items {
		confirmed[i] = model.SaveItem{AssetID: item.AssetID, RawAmount: item.RawAmount}
	}

	snapshot, err := inventory.InventoryService.Save(getContext(), groupID, quarter, confirmed, req.ActorID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %d item(s), total %s\n",
		calendar.Label(snapshot.QuarterStart), len(snapshot.Items), service.FormatYen(snapshot.TotalYen))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := requireGroup(); err != nil {
		return err
	}

	filters, err := request.ParseHistoryFilters(historyFrom, historyTo)
	if err != nil {
		return err
	}

	entries, err := inventory.HistoryService.List(getContext(), groupID, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No inventory recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "QUARTER\tFINANCIAL\tPHYSICAL\tINTANGIBLE\tLIABILITY\tTOTAL\tBY\t")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", e.Label,
			e.CategoryDisplay[model.CategoryFinancial],
			e.CategoryDisplay[model.CategoryPhysical],
			e.CategoryDisplay[model.CategoryIntangible],
			e.CategoryDisplay[model.CategoryLiability],
			e.TotalYenDisplay, e.UpdatedBy)
	}
	return w.Flush()
}

func runChart(cmd *cobra.Command, args []string) error {
	if err := requireGroup(); err != nil {
		return err
	}

	filters, err := request.ParseHistoryFilters(historyFrom, historyTo)
	if err != nil {
		return err
	}

	data, err := inventory.HistoryService.History(getContext(), groupID, filters)
	if err != nil {
		return err
	}

	f, err := os.Create(chartOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", chartOutput, err)
	}
	defer f.Close()

	if err := report.RenderChart(f, data, report.DefaultChartOptions); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d quarter(s) to %s\n", len(data.Labels), chartOutput)
	return nil
}
