package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/marketdata"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/valuation"
)

// ValuationService values a group's current holdings at live prices.
type ValuationService struct {
	assets     AssetRepository
	resolver   *marketdata.Resolver
	calculator *valuation.Calculator
	now        func() time.Time
}

// NewValuationService creates a new ValuationService.
func NewValuationService(assets AssetRepository, resolver *marketdata.Resolver, calculator *valuation.Calculator) *ValuationService {
	return &ValuationService{
		assets:     assets,
		resolver:   resolver,
		calculator: calculator,
		now:        time.Now,
	}
}

// WithClock replaces the service clock.
func (s *ValuationService) WithClock(now func() time.Time) *ValuationService {
	s.now = now
	return s
}

// Overview values every asset of a group at current prices in a single pass.
// Nothing is stored; market failures degrade to the fallback prices.
func (s *ValuationService) Overview(ctx context.Context, groupID string) (model.HoldingsOverview, error) {
	assets, err := s.assets.FindByGroup(ctx, groupID)
	if err != nil {
		return model.HoldingsOverview{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
	}

	pass := s.resolver.NewPass()
	if err := pass.Prefetch(ctx, s.calculator.Requests(assets, nil)); err != nil {
		return model.HoldingsOverview{}, err
	}

	overview := model.HoldingsOverview{
		GroupID:         groupID,
		ValuedAt:        s.now().UTC(),
		Assets:          make([]model.AssetValuation, 0, len(assets)),
		TotalYen:        decimal.Zero,
		TotalByCategory: model.NewCategoryTotals(),
	}
	for _, a := range assets {
		amountYen := s.calculator.Current(ctx, pass, a, a.Amount)
		overview.Assets = append(overview.Assets, model.AssetValuation{Asset: a, AmountYen: amountYen})
		overview.TotalYen = overview.TotalYen.Add(amountYen)
		overview.TotalByCategory[a.Category] = overview.TotalByCategory[a.Category].Add(amountYen)
	}

	return overview, nil
}
