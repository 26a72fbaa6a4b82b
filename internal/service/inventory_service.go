package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/marketdata"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/valuation"
)

// InventoryService builds, prefills and persists quarterly inventory snapshots.
//
// Preview proposes values for the user to confirm and never writes. Save is the only
// operation that computes and stores snapshot totals; once stored, a snapshot's yen
// amounts are returned verbatim and never revalued.
type InventoryService struct {
	assets     AssetRepository
	snapshots  SnapshotRepository
	resolver   *marketdata.Resolver
	calculator *valuation.Calculator
	now        func() time.Time
}

// NewInventoryService creates a new InventoryService with the provided dependencies.
func NewInventoryService(
	assets AssetRepository,
	snapshots SnapshotRepository,
	resolver *marketdata.Resolver,
	calculator *valuation.Calculator,
) *InventoryService {
	return &InventoryService{
		assets:     assets,
		snapshots:  snapshots,
		resolver:   resolver,
		calculator: calculator,
		now:        time.Now,
	}
}

// WithClock replaces the service clock. Used by tests to pin "today".
func (s *InventoryService) WithClock(now func() time.Time) *InventoryService {
	s.now = now
	return s
}

// QuarterStart returns the quarter boundary on or before t.
func (s *InventoryService) QuarterStart(t time.Time) time.Time {
	return calendar.QuarterStart(t)
}

// LatestAllowedQuarter returns the newest quarter a snapshot may target today.
func (s *InventoryService) LatestAllowedQuarter() time.Time {
	return calendar.LatestAllowedQuarter(s.now())
}

// checkQuarter normalises quarter to its boundary and rejects quarters not reached yet.
func (s *InventoryService) checkQuarter(quarter time.Time) (time.Time, error) {
	q := calendar.QuarterStart(quarter)
	latest := s.LatestAllowedQuarter()
	if q.After(latest) {
		return time.Time{}, &apperrors.QuarterNotReachedError{Requested: q, Latest: latest}
	}
	return q, nil
}

// Preview returns the prefilled inventory of a group for a quarter.
//
// Each asset's proposal comes from, in order: the quarter's own snapshot (stored values
// reused verbatim), the group's latest snapshot (stored values carried over verbatim), or
// the asset's registered amount valued as of the quarter.
func (s *InventoryService) Preview(ctx context.Context, groupID string, quarter time.Time) (model.InventoryPreview, error) {
	q, err := s.checkQuarter(quarter)
	if err != nil {
		return model.InventoryPreview{}, err
	}

	assets, err := s.assets.FindByGroup(ctx, groupID)
	if err != nil {
		return model.InventoryPreview{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
	}

	existing, err := s.snapshots.FindByQuarter(ctx, groupID, q)
	if err != nil {
		return model.InventoryPreview{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveSnapshots, err)
	}
	latest, err := s.snapshots.FindLatest(ctx, groupID)
	if err != nil {
		return model.InventoryPreview{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveSnapshots, err)
	}

	var carry *model.InventorySnapshot
	if existing == nil {
		carry = latest
	}

	type plan struct {
		asset  model.Asset
		raw    decimal.Decimal
		source model.PrefillSource
		item   *model.InventoryItem
	}

	plans := make([]plan, 0, len(assets))
	toValue := make([]model.Asset, 0, len(assets))
	for _, a := range assets {
		if item, ok := existing.Item(a.ID); ok {
			plans = append(plans, plan{asset: a, raw: item.RawAmount, source: model.PrefillSnapshot, item: &item})
			continue
		}
		if item, ok := carry.Item(a.ID); ok {
			plans = append(plans, plan{asset: a, raw: item.RawAmount, source: model.PrefillCarried, item: &item})
			continue
		}
		plans = append(plans, plan{asset: a, raw: a.Amount, source: model.PrefillComputed})
		toValue = append(toValue, a)
	}

	pass := s.resolver.NewPass()
	if err := pass.Prefetch(ctx, s.calculator.Requests(toValue, &q)); err != nil {
		return model.InventoryPreview{}, err
	}

	rows := make([]model.PreviewRow, 0, len(plans))
	for _, p := range plans {
		row := model.PreviewRow{
			Asset:             p.asset,
			ProposedRawAmount: p.raw,
			Source:            p.source,
			QuantityValued:    s.calculator.IsQuantityValued(p.asset),
		}
		if p.item != nil {
			row.ProposedAmountYen = p.item.AmountYen
			updatedAt := p.item.UpdatedAt
			row.ItemUpdatedBy = p.item.UpdatedBy
			row.ItemUpdatedAt = &updatedAt
		} else {
			row.ProposedAmountYen = s.calculator.AsOf(ctx, pass, p.asset, p.raw, q)
		}
		rows = append(rows, row)
	}

	return model.InventoryPreview{
		GroupID:              groupID,
		Quarter:              q,
		QuarterLabel:         calendar.Label(q),
		LatestAllowedQuarter: s.LatestAllowedQuarter(),
		Rows:                 rows,
		Existing:             existing,
		Latest:               latest,
	}, nil
}

// Save values the caller-confirmed raw amounts and upserts the group's snapshot for quarter.
//
// Equities are priced as of the quarter start and foreign currency at the current rate.
// Items naming an asset the group does not own are skipped. When an asset appears more
// than once, the last entry wins. Storage failures abort the save.
func (s *InventoryService) Save(ctx context.Context, groupID string, quarter time.Time, items []model.SaveItem, actorID string) (model.InventorySnapshot, error) {
	q, err := s.checkQuarter(quarter)
	if err != nil {
		return model.InventorySnapshot{}, err
	}

	items = lastWins(items)
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.AssetID
	}

	assets, err := s.assets.FindByIDs(ctx, groupID, ids)
	if err != nil {
		return model.InventorySnapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
	}
	byID := make(map[string]model.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}

	pass := s.resolver.NewPass()
	if err := pass.Prefetch(ctx, s.calculator.Requests(assets, &q)); err != nil {
		return model.InventorySnapshot{}, err
	}

	now := s.now().UTC()
	snapshot := model.InventorySnapshot{
		GroupID:         groupID,
		QuarterStart:    q,
		Items:           make([]model.InventoryItem, 0, len(items)),
		TotalYen:        decimal.Zero,
		TotalByCategory: model.NewCategoryTotals(),
		CreatedBy:       actorID,
		UpdatedBy:       actorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, item := range items {
		asset, ok := byID[item.AssetID]
		if !ok {
			log.Printf("inventory: skipping unknown asset %s for group %s", item.AssetID, groupID)
			continue
		}

		amountYen := s.calculator.AsOf(ctx, pass, asset, item.RawAmount, q)
		snapshot.Items = append(snapshot.Items, model.InventoryItem{
			AssetID:     asset.ID,
			Category:    asset.Category,
			Subtype:     asset.Subtype,
			SymbolCode:  asset.SymbolCode,
			Description: asset.Description,
			RawAmount:   item.RawAmount,
			AmountYen:   amountYen,
			UpdatedBy:   actorID,
			UpdatedAt:   now,
		})
		snapshot.TotalYen = snapshot.TotalYen.Add(amountYen)
		snapshot.TotalByCategory[asset.Category] = snapshot.TotalByCategory[asset.Category].Add(amountYen)
	}

	saved, err := s.snapshots.Upsert(ctx, snapshot)
	if err != nil {
		return model.InventorySnapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveSnapshot, err)
	}

	log.Printf("inventory: saved %s snapshot for group %s (%d items, total %s)",
		calendar.FormatYearMonth(q), groupID, len(saved.Items), saved.TotalYen)

	return saved, nil
}

// lastWins drops earlier entries for an asset that appears again later, keeping order.
func lastWins(items []model.SaveItem) []model.SaveItem {
	last := make(map[string]int, len(items))
	for i, item := range items {
		last[item.AssetID] = i
	}
	result := make([]model.SaveItem, 0, len(last))
	for i, item := range items {
		if last[item.AssetID] == i {
			result = append(result, item)
		}
	}
	return result
}

// Status tells whether the group has taken the inventory for the current quarter.
func (s *InventoryService) Status(ctx context.Context, groupID string) (model.InventoryStatus, error) {
	now := s.now()
	current := calendar.LatestAllowedQuarter(now)

	latest, err := s.snapshots.FindLatest(ctx, groupID)
	if err != nil {
		return model.InventoryStatus{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveSnapshots, err)
	}

	status := model.InventoryStatus{
		GroupID:        groupID,
		CurrentQuarter: current,
		NeedsInventory: latest == nil || latest.QuarterStart.Before(current),
	}
	if latest != nil {
		q := latest.QuarterStart
		status.LatestQuarter = &q
	}
	if info, ok := calendar.Callout(now); ok {
		status.Callout = &model.Callout{MonthValue: info.MonthValue, Label: info.Label}
	}

	return status, nil
}

// PendingGroups returns the current quarter and the groups that own assets but have
// not stored a snapshot for it yet.
func (s *InventoryService) PendingGroups(ctx context.Context) (time.Time, []string, error) {
	current := s.LatestAllowedQuarter()
	groups, err := s.snapshots.GroupsNeedingInventory(ctx, current)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveSnapshots, err)
	}
	return current, groups, nil
}
