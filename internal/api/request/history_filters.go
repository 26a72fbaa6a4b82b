package request

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
)

// ParseHistoryFilters extracts the quarter range of a history request from query parameters.
// Both parameters are optional and formatted as YYYY-MM (a full date is accepted).
//
// Validation rules:
//   - from/to: parsed and normalized to their quarter start
//   - from must not be after to
func ParseHistoryFilters(fromParam, toParam string) (model.HistoryFilters, error) {
	var filters model.HistoryFilters

	if fromParam = strings.TrimSpace(fromParam); fromParam != "" {
		from, err := calendar.ParseYearMonth(fromParam)
		if err != nil {
			return model.HistoryFilters{}, fmt.Errorf("invalid from: %w", err)
		}
		q := calendar.QuarterStart(from)
		filters.From = &q
	}

	if toParam = strings.TrimSpace(toParam); toParam != "" {
		to, err := calendar.ParseYearMonth(toParam)
		if err != nil {
			return model.HistoryFilters{}, fmt.Errorf("invalid to: %w", err)
		}
		q := calendar.QuarterStart(to)
		filters.To = &q
	}

	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return model.HistoryFilters{}, fmt.Errorf("%w: from %s is after to %s", apperrors.ErrInvalidDateRange,
			calendar.FormatYearMonth(*filters.From), calendar.FormatYearMonth(*filters.To))
	}

	return filters, nil
}
