package validation

import (
	"strings"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
)

const (
	maxSubtypeLength     = 50
	maxSymbolLength      = 20
	maxDescriptionLength = 200
	maxSecureNoteLength  = 2000
)

func ValidateCreateAsset(req request.CreateAssetRequest) error {
	errors := make(map[string]string)

	if !model.Category(req.Category).Valid() {
		errors["category"] = "category must be one of financial, physical, intangible, liability"
	}
	if !model.ValuationUnit(req.ValuationUnit).Valid() {
		errors["valuationUnit"] = "valuationUnit must be one of yen, quantity, foreign-currency-unit"
	}

	if strings.TrimSpace(req.Subtype) == "" {
		errors["subtype"] = "subtype is required"
	} else if len(req.Subtype) > maxSubtypeLength {
		errors["subtype"] = "subtype must be 50 characters or less"
	}

	if strings.TrimSpace(req.Description) == "" {
		errors["description"] = "description is required"
	} else if len(req.Description) > maxDescriptionLength {
		errors["description"] = "description must be 200 characters or less"
	}

	if len(req.SymbolCode) > maxSymbolLength {
		errors["symbolCode"] = "symbolCode must be 20 characters or less"
	}
	if len(req.SecureNote) > maxSecureNoteLength {
		errors["secureNote"] = "secureNote must be 2000 characters or less"
	}

	return fieldErrors(errors)
}

// ValidateUpdateAsset checks the provided fields only.
func ValidateUpdateAsset(req request.UpdateAssetRequest) error {
	errors := make(map[string]string)

	if req.Category != nil && !model.Category(*req.Category).Valid() {
		errors["category"] = "category must be one of financial, physical, intangible, liability"
	}
	if req.ValuationUnit != nil && !model.ValuationUnit(*req.ValuationUnit).Valid() {
		errors["valuationUnit"] = "valuationUnit must be one of yen, quantity, foreign-currency-unit"
	}
	if req.Subtype != nil {
		if strings.TrimSpace(*req.Subtype) == "" {
			errors["subtype"] = "subtype cannot be empty"
		} else if len(*req.Subtype) > maxSubtypeLength {
			errors["subtype"] = "subtype must be 50 characters or less"
		}
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			errors["description"] = "description cannot be empty"
		} else if len(*req.Description) > maxDescriptionLength {
			errors["description"] = "description must be 200 characters or less"
		}
	}
	if req.SymbolCode != nil && len(*req.SymbolCode) > maxSymbolLength {
		errors["symbolCode"] = "symbolCode must be 20 characters or less"
	}
	if req.SecureNote != nil && len(*req.SecureNote) > maxSecureNoteLength {
		errors["secureNote"] = "secureNote must be 2000 characters or less"
	}

	return fieldErrors(errors)
}

// ValidateAsset checks rules spanning several fields of a complete asset.
// An equity valued by quantity must name the symbol it is priced by.
func ValidateAsset(a model.Asset) error {
	errors := make(map[string]string)

	if a.Subtype == model.SubtypeEquity && a.Unit == model.UnitQuantity && strings.TrimSpace(a.SymbolCode) == "" {
		errors["symbolCode"] = "symbolCode is required for equities valued by quantity"
	}

	return fieldErrors(errors)
}
