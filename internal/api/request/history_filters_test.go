package request

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
)

func TestParseHistoryFilters(t *testing.T) {
	t.Run("no parameters select everything", func(t *testing.T) {
		filters, err := ParseHistoryFilters("", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filters.From != nil || filters.To != nil {
			t.Errorf("Expected open range, got %+v", filters)
		}
	})

	t.Run("months are normalized to their quarter start", func(t *testing.T) {
		filters, err := ParseHistoryFilters("2025-04", "2026-02-15")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC); !filters.From.Equal(want) {
			t.Errorf("Expected from %s, got %s", want, filters.From)
		}
		if want := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC); !filters.To.Equal(want) {
			t.Errorf("Expected to %s, got %s", want, filters.To)
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		if _, err := ParseHistoryFilters("last year", ""); err == nil {
			t.Error("Expected error for invalid from")
		}
		if _, err := ParseHistoryFilters("", "2026/09"); err == nil {
			t.Error("Expected error for invalid to")
		}
	})

	t.Run("from after to", func(t *testing.T) {
		_, err := ParseHistoryFilters("2026-09", "2026-03")
		if !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})
}
