package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
)

// AssetRepository provides data access methods for the asset table.
type AssetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// WithTx returns a new AssetRepository scoped to the provided transaction.
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *AssetRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const assetColumns = `
	id, group_id, category, subtype, symbol_code, description, amount, valuation_unit,
	secure_note, created_by, updated_by, created_at, updated_at
`

// FindByGroup retrieves every asset of a group in registration order.
// Returns an empty slice if the group has no assets.
func (r *AssetRepository) FindByGroup(ctx context.Context, groupID string) ([]model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM asset WHERE group_id = ? ORDER BY created_at, id`

	rows, err := r.getQuerier().QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// FindByIDs retrieves the assets of a group with the given IDs.
// IDs that are unknown or belong to another group are silently absent from the result.
func (r *AssetRepository) FindByIDs(ctx context.Context, groupID string, ids []string) ([]model.Asset, error) {
	if len(ids) == 0 {
		return []model.Asset{}, nil
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `SELECT ` + assetColumns + ` FROM asset WHERE group_id = ? AND id IN (` + placeholders(len(ids)) + `) ORDER BY created_at, id`

	args := make([]any, 0, len(ids)+1)
	args = append(args, groupID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// Get retrieves one asset of a group. Returns apperrors.ErrAssetNotFound if it does not exist.
func (r *AssetRepository) Get(ctx context.Context, groupID, assetID string) (model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM asset WHERE group_id = ? AND id = ?`

	a, err := scanAsset(r.getQuerier().QueryRowContext(ctx, query, groupID, assetID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to query asset: %w", err)
	}
	return a, nil
}

// Insert stores a new asset.
func (r *AssetRepository) Insert(ctx context.Context, a model.Asset) error {
	query := `
        INSERT INTO asset (` + assetColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		a.ID,
		a.GroupID,
		a.Category,
		a.Subtype,
		nullString(a.SymbolCode),
		a.Description,
		a.Amount,
		a.Unit,
		nullString(a.SecureNote),
		nullString(a.CreatedBy),
		nullString(a.UpdatedBy),
		formatTimestamp(a.CreatedAt),
		formatTimestamp(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of an asset.
// Returns apperrors.ErrAssetNotFound if no asset matched.
func (r *AssetRepository) Update(ctx context.Context, a model.Asset) error {
	query := `
        UPDATE asset
        SET category = ?, subtype = ?, symbol_code = ?, description = ?, amount = ?,
            valuation_unit = ?, secure_note = ?, updated_by = ?, updated_at = ?
        WHERE group_id = ? AND id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		a.Category,
		a.Subtype,
		nullString(a.SymbolCode),
		a.Description,
		a.Amount,
		a.Unit,
		nullString(a.SecureNote),
		nullString(a.UpdatedBy),
		formatTimestamp(a.UpdatedAt),
		a.GroupID,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	return requireAffected(result, apperrors.ErrAssetNotFound)
}

// Delete removes an asset. Snapshot items referencing it are kept.
// Returns apperrors.ErrAssetNotFound if no asset matched.
func (r *AssetRepository) Delete(ctx context.Context, groupID, assetID string) error {
	query := `DELETE FROM asset WHERE group_id = ? AND id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, groupID, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return requireAffected(result, apperrors.ErrAssetNotFound)
}

func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (model.Asset, error) {
	var (
		a                                  model.Asset
		symbol, note, createdBy, updatedBy sql.NullString
		createdAtStr, updatedAtStr         string
	)

	err := row.Scan(
		&a.ID,
		&a.GroupID,
		&a.Category,
		&a.Subtype,
		&symbol,
		&a.Description,
		&a.Amount,
		&a.Unit,
		&note,
		&createdBy,
		&updatedBy,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.Asset{}, err
	}

	a.SymbolCode = symbol.String
	a.SecureNote = note.String
	a.CreatedBy = createdBy.String
	a.UpdatedBy = updatedBy.String

	if a.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Asset{}, err
	}
	if a.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Asset{}, err
	}

	return a, nil
}

func scanAssets(rows *sql.Rows) ([]model.Asset, error) {
	assets := []model.Asset{}

	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset table results: %w", err)
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}

	return assets, nil
}
