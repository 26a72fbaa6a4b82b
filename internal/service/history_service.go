package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
)

// HistoryService projects stored snapshots for trend charts and the history list.
// It only reads persisted snapshots and makes no market calls.
type HistoryService struct {
	snapshots SnapshotRepository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(snapshots SnapshotRepository) *HistoryService {
	return &HistoryService{snapshots: snapshots}
}

// History returns the chart data of a group's snapshots within filters, oldest first.
func (s *HistoryService) History(ctx context.Context, groupID string, filters model.HistoryFilters) (model.ChartData, error) {
	snapshots, err := s.find(ctx, groupID, filters)
	if err != nil {
		return model.ChartData{}, err
	}
	return BuildChartData(snapshots), nil
}

func (s *HistoryService) find(ctx context.Context, groupID string, filters model.HistoryFilters) ([]model.InventorySnapshot, error) {
	all, err := s.snapshots.FindAll(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveSnapshots, err)
	}
	snapshots := all[:0]
	for _, snap := range all {
		if filters.Includes(snap.QuarterStart) {
			snapshots = append(snapshots, snap)
		}
	}
	return snapshots, nil
}

// BuildChartData converts snapshots, ordered oldest first, into one label and one value
// per series for each snapshot. Total is the sum of the four category values.
func BuildChartData(snapshots []model.InventorySnapshot) model.ChartData {
	data := model.ChartData{
		Labels: make([]string, 0, len(snapshots)),
		Series: model.ChartSeries{
			Financial:  make([]float64, 0, len(snapshots)),
			Physical:   make([]float64, 0, len(snapshots)),
			Intangible: make([]float64, 0, len(snapshots)),
			Liability:  make([]float64, 0, len(snapshots)),
			Total:      make([]float64, 0, len(snapshots)),
		},
	}

	for _, snap := range snapshots {
		financial := snap.TotalByCategory[model.CategoryFinancial]
		physical := snap.TotalByCategory[model.CategoryPhysical]
		intangible := snap.TotalByCategory[model.CategoryIntangible]
		liability := snap.TotalByCategory[model.CategoryLiability]
		total := financial.Add(physical).Add(intangible).Add(liability)

		data.Labels = append(data.Labels, calendar.Label(snap.QuarterStart))
		data.Series.Financial = append(data.Series.Financial, financial.InexactFloat64())
		data.Series.Physical = append(data.Series.Physical, physical.InexactFloat64())
		data.Series.Intangible = append(data.Series.Intangible, intangible.InexactFloat64())
		data.Series.Liability = append(data.Series.Liability, liability.InexactFloat64())
		data.Series.Total = append(data.Series.Total, total.InexactFloat64())
	}

	return data
}

// List returns the group's snapshots within filters newest first, with items sorted by
// category then subtype and display strings for every total.
func (s *HistoryService) List(ctx context.Context, groupID string, filters model.HistoryFilters) ([]model.HistoryEntry, error) {
	snapshots, err := s.find(ctx, groupID, filters)
	if err != nil {
		return nil, err
	}

	entries := make([]model.HistoryEntry, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		snap := snapshots[i]

		items := slices.Clone(snap.Items)
		slices.SortStableFunc(items, func(a, b model.InventoryItem) int {
			if c := categoryRank(a.Category) - categoryRank(b.Category); c != 0 {
				return c
			}
			return strings.Compare(a.Subtype, b.Subtype)
		})

		display := make(map[model.Category]string, len(model.AllCategories))
		for _, c := range model.AllCategories {
			display[c] = FormatYen(snap.TotalByCategory[c])
		}

		entries = append(entries, model.HistoryEntry{
			ID:              snap.ID,
			Quarter:         snap.QuarterStart,
			Label:           calendar.Label(snap.QuarterStart),
			TotalYen:        snap.TotalYen,
			TotalYenDisplay: FormatYen(snap.TotalYen),
			TotalByCategory: snap.TotalByCategory,
			CategoryDisplay: display,
			UpdatedBy:       snap.UpdatedBy,
			UpdatedAt:       snap.UpdatedAt,
			Items:           items,
		})
	}

	return entries, nil
}

func categoryRank(c model.Category) int {
	if i := slices.Index(model.AllCategories, c); i >= 0 {
		return i
	}
	return len(model.AllCategories)
}

// FormatYen formats a whole-yen amount for display, e.g. "¥20,000".
func FormatYen(amount decimal.Decimal) string {
	return money.New(amount.Round(0).IntPart(), money.JPY).Display()
}
