package service

import (
	"context"
	"time"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
)

// AssetRepository is the asset registry as seen by the services.
// *repository.AssetRepository is the SQLite implementation.
type AssetRepository interface {
	FindByGroup(ctx context.Context, groupID string) ([]model.Asset, error)
	FindByIDs(ctx context.Context, groupID string, ids []string) ([]model.Asset, error)
	Get(ctx context.Context, groupID, assetID string) (model.Asset, error)
	Insert(ctx context.Context, asset model.Asset) error
	Update(ctx context.Context, asset model.Asset) error
	Delete(ctx context.Context, groupID, assetID string) error
}

// SnapshotRepository is the snapshot store as seen by the services.
// The Find methods return nil, not an error, when no snapshot exists.
type SnapshotRepository interface {
	FindLatest(ctx context.Context, groupID string) (*model.InventorySnapshot, error)
	FindByQuarter(ctx context.Context, groupID string, quarter time.Time) (*model.InventorySnapshot, error)
	FindAll(ctx context.Context, groupID string) ([]model.InventorySnapshot, error)
	Upsert(ctx context.Context, snapshot model.InventorySnapshot) (model.InventorySnapshot, error)
	GroupsNeedingInventory(ctx context.Context, quarter time.Time) ([]string, error)
}
