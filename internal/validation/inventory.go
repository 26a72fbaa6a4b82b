package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
)

// ValidateSaveInventory checks the envelope of a save request.
// Asset IDs are not checked here: unknown ones are skipped when saving.
func ValidateSaveInventory(req request.SaveInventoryRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Month) == "" {
		errors["month"] = "month is required"
	} else if _, err := calendar.ParseYearMonth(req.Month); err != nil {
		errors["month"] = "month must be formatted as YYYY-MM"
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.AssetID) == "" {
			errors[fmt.Sprintf("items[%d].assetId", i)] = "assetId is required"
		}
	}

	return fieldErrors(errors)
}
