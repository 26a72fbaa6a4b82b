package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/securenote"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/validation"
)

// AssetService handles the asset registry of a group.
// Secure notes are sealed before they reach storage and opened only by GetSecureNote.
type AssetService struct {
	assets AssetRepository
	sealer *securenote.Sealer
	now    func() time.Time
}

// NewAssetService creates a new AssetService.
func NewAssetService(assets AssetRepository, sealer *securenote.Sealer) *AssetService {
	return &AssetService{
		assets: assets,
		sealer: sealer,
		now:    time.Now,
	}
}

// ListAssets returns every asset of a group in registration order.
func (s *AssetService) ListAssets(ctx context.Context, groupID string) ([]model.Asset, error) {
	assets, err := s.assets.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
	}
	return assets, nil
}

// GetAsset returns a single asset of a group.
func (s *AssetService) GetAsset(ctx context.Context, groupID, assetID string) (model.Asset, error) {
	return s.assets.Get(ctx, groupID, assetID)
}

// CreateAsset registers a new asset for a group.
// The request must already have passed validation.ValidateCreateAsset.
func (s *AssetService) CreateAsset(ctx context.Context, groupID string, req request.CreateAssetRequest) (model.Asset, error) {
	now := s.now().UTC()
	asset := model.Asset{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		Category:    model.Category(req.Category),
		Subtype:     strings.TrimSpace(req.Subtype),
		SymbolCode:  strings.TrimSpace(req.SymbolCode),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Unit:        model.ValuationUnit(req.ValuationUnit),
		CreatedBy:   req.ActorID,
		UpdatedBy:   req.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validation.ValidateAsset(asset); err != nil {
		return model.Asset{}, err
	}

	if req.SecureNote != "" {
		token, err := s.sealer.Seal(req.SecureNote)
		if err != nil {
			return model.Asset{}, err
		}
		asset.SecureNote = token
	}

	if err := s.assets.Insert(ctx, asset); err != nil {
		return model.Asset{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveAsset, err)
	}

	log.Printf("assets: registered %s asset %s for group %s", asset.Category, asset.ID, groupID)
	return asset, nil
}

// UpdateAsset applies the provided fields to an existing asset.
// An empty secure note clears the stored note.
func (s *AssetService) UpdateAsset(ctx context.Context, groupID, assetID string, req request.UpdateAssetRequest) (model.Asset, error) {
	asset, err := s.assets.Get(ctx, groupID, assetID)
	if err != nil {
		return model.Asset{}, err
	}

	if req.Category != nil {
		asset.Category = model.Category(*req.Category)
	}
	if req.Subtype != nil {
		asset.Subtype = strings.TrimSpace(*req.Subtype)
	}
	if req.SymbolCode != nil {
		asset.SymbolCode = strings.TrimSpace(*req.SymbolCode)
	}
	if req.Description != nil {
		asset.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		asset.Amount = *req.Amount
	}
	if req.ValuationUnit != nil {
		asset.Unit = model.ValuationUnit(*req.ValuationUnit)
	}
	if err := validation.ValidateAsset(asset); err != nil {
		return model.Asset{}, err
	}

	if req.SecureNote != nil {
		if *req.SecureNote == "" {
			asset.SecureNote = ""
		} else {
			token, err := s.sealer.Seal(*req.SecureNote)
			if err != nil {
				return model.Asset{}, err
			}
			asset.SecureNote = token
		}
	}

	asset.UpdatedBy = req.ActorID
	asset.UpdatedAt = s.now().UTC()

	if err := s.assets.Update(ctx, asset); err != nil {
		if errors.Is(err, apperrors.ErrAssetNotFound) {
			return model.Asset{}, err
		}
		return model.Asset{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveAsset, err)
	}
	return asset, nil
}

// DeleteAsset removes an asset from the registry.
// Snapshot items referencing it are kept; history is never rewritten.
func (s *AssetService) DeleteAsset(ctx context.Context, groupID, assetID string) error {
	if err := s.assets.Delete(ctx, groupID, assetID); err != nil {
		return err
	}
	log.Printf("assets: deleted asset %s of group %s", assetID, groupID)
	return nil
}

// GetSecureNote returns the decrypted secure note of an asset.
func (s *AssetService) GetSecureNote(ctx context.Context, groupID, assetID string) (string, error) {
	asset, err := s.assets.Get(ctx, groupID, assetID)
	if err != nil {
		return "", err
	}
	if !asset.HasSecureNote() {
		return "", apperrors.ErrSecureNoteNotSet
	}
	return s.sealer.Open(asset.SecureNote)
}
