package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the inventory_snapshot and inventory_item tables.
// A snapshot is unique per (group, quarter start); Upsert is the only write path.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a new SnapshotRepository scoped to the provided transaction.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *SnapshotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const snapshotColumns = `
	id, group_id, quarter_start, total_yen, total_financial, total_physical, total_intangible,
	total_liability, created_by, updated_by, created_at, updated_at
`

// FindLatest returns the group's snapshot with the newest quarter start, or nil if none exists.
func (r *SnapshotRepository) FindLatest(ctx context.Context, groupID string) (*model.InventorySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM inventory_snapshot WHERE group_id = ? ORDER BY quarter_start DESC LIMIT 1`
	return r.findOne(ctx, query, groupID)
}

// FindByQuarter returns the group's snapshot for a quarter start, or nil if none exists.
func (r *SnapshotRepository) FindByQuarter(ctx context.Context, groupID string, quarter time.Time) (*model.InventorySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM inventory_snapshot WHERE group_id = ? AND quarter_start = ?`
	return r.findOne(ctx, query, groupID, formatDate(quarter))
}

func (r *SnapshotRepository) findOne(ctx context.Context, query string, args ...any) (*model.InventorySnapshot, error) {
	s, err := scanSnapshot(r.getQuerier().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory snapshot: %w", err)
	}

	items, err := r.loadItems(ctx, `WHERE i.snapshot_id = ?`, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	if s.Items == nil {
		s.Items = []model.InventoryItem{}
	}

	return &s, nil
}

// FindAll returns every snapshot of the group with its items, oldest quarter first.
func (r *SnapshotRepository) FindAll(ctx context.Context, groupID string) ([]model.InventorySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM inventory_snapshot WHERE group_id = ? ORDER BY quarter_start ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.InventorySnapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory_snapshot table results: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory_snapshot table: %w", err)
	}
	rows.Close()

	if len(snapshots) == 0 {
		return snapshots, nil
	}

	items, err := r.loadItems(ctx, `JOIN inventory_snapshot s ON s.id = i.snapshot_id WHERE s.group_id = ?`, groupID)
	if err != nil {
		return nil, err
	}
	for i := range snapshots {
		snapshots[i].Items = items[snapshots[i].ID]
		if snapshots[i].Items == nil {
			snapshots[i].Items = []model.InventoryItem{}
		}
	}

	return snapshots, nil
}

// loadItems returns items grouped by snapshot ID, in stored position order.
func (r *SnapshotRepository) loadItems(ctx context.Context, where string, args ...any) (map[string][]model.InventoryItem, error) {
	query := `
        SELECT i.snapshot_id, i.asset_id, i.category, i.subtype, i.symbol_code, i.description,
               i.raw_amount, i.amount_yen, i.updated_by, i.updated_at
        FROM inventory_item i
    ` + where + ` ORDER BY i.snapshot_id, i.position`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory_item table: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]model.InventoryItem)
	for rows.Next() {
		var (
			snapshotID, updatedAtStr string
			symbol, updatedBy        sql.NullString
			item                     model.InventoryItem
		)
		err := rows.Scan(
			&snapshotID,
			&item.AssetID,
			&item.Category,
			&item.Subtype,
			&symbol,
			&item.Description,
			&item.RawAmount,
			&item.AmountYen,
			&updatedBy,
			&updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory_item table results: %w", err)
		}
		item.SymbolCode = symbol.String
		item.UpdatedBy = updatedBy.String
		if item.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
			return nil, err
		}
		items[snapshotID] = append(items[snapshotID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory_item table: %w", err)
	}

	return items, nil
}

// Upsert stores a snapshot keyed by (GroupID, QuarterStart) in one transaction.
// An existing snapshot for the key keeps its ID and creation fields; its totals and
// items are replaced. The stored snapshot is returned.
func (r *SnapshotRepository) Upsert(ctx context.Context, s model.InventorySnapshot) (model.InventorySnapshot, error) {
	if r.tx != nil {
		return r.upsert(ctx, s)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.InventorySnapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	saved, err := r.WithTx(tx).upsert(ctx, s)
	if err != nil {
		return model.InventorySnapshot{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.InventorySnapshot{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return saved, nil
}

func (r *SnapshotRepository) upsert(ctx context.Context, s model.InventorySnapshot) (model.InventorySnapshot, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	total := func(c model.Category) decimal.Decimal {
		return s.TotalByCategory[c]
	}

	query := `
        INSERT INTO inventory_snapshot (` + snapshotColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (group_id, quarter_start) DO UPDATE SET
            total_yen = excluded.total_yen,
            total_financial = excluded.total_financial,
            total_physical = excluded.total_physical,
            total_intangible = excluded.total_intangible,
            total_liability = excluded.total_liability,
            updated_by = excluded.updated_by,
            updated_at = excluded.updated_at
        RETURNING id, created_by, created_at
    `

	var (
		createdBy    sql.NullString
		createdAtStr string
	)
	err := r.getQuerier().QueryRowContext(ctx, query,
		s.ID,
		s.GroupID,
		formatDate(s.QuarterStart),
		s.TotalYen,
		total(model.CategoryFinancial),
		total(model.CategoryPhysical),
		total(model.CategoryIntangible),
		total(model.CategoryLiability),
		nullString(s.CreatedBy),
		nullString(s.UpdatedBy),
		formatTimestamp(s.CreatedAt),
		formatTimestamp(s.UpdatedAt),
	).Scan(&s.ID, &createdBy, &createdAtStr)
	if err != nil {
		return model.InventorySnapshot{}, fmt.Errorf("failed to upsert inventory snapshot: %w", err)
	}
	s.CreatedBy = createdBy.String
	if s.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.InventorySnapshot{}, err
	}

	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM inventory_item WHERE snapshot_id = ?`, s.ID); err != nil {
		return model.InventorySnapshot{}, fmt.Errorf("failed to clear inventory items: %w", err)
	}

	itemQuery := `
        INSERT INTO inventory_item (
            id, snapshot_id, position, asset_id, category, subtype, symbol_code, description,
            raw_amount, amount_yen, updated_by, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	for i, item := range s.Items {
		_, err := r.getQuerier().ExecContext(ctx, itemQuery,
			uuid.New().String(),
			s.ID,
			i,
			item.AssetID,
			item.Category,
			item.Subtype,
			nullString(item.SymbolCode),
			item.Description,
			item.RawAmount,
			item.AmountYen,
			nullString(item.UpdatedBy),
			formatTimestamp(item.UpdatedAt),
		)
		if err != nil {
			return model.InventorySnapshot{}, fmt.Errorf("failed to insert inventory item: %w", err)
		}
	}

	return s, nil
}

// GroupsNeedingInventory returns the groups that own assets but have no snapshot for quarter.
func (r *SnapshotRepository) GroupsNeedingInventory(ctx context.Context, quarter time.Time) ([]string, error) {
	query := `
        SELECT DISTINCT a.group_id
        FROM asset a
        WHERE NOT EXISTS (
            SELECT 1 FROM inventory_snapshot s
            WHERE s.group_id = a.group_id AND s.quarter_start = ?
        )
        ORDER BY a.group_id
    `

	rows, err := r.getQuerier().QueryContext(ctx, query, formatDate(quarter))
	if err != nil {
		return nil, fmt.Errorf("failed to query groups needing inventory: %w", err)
	}
	defer rows.Close()

	groups := []string{}
	for rows.Next() {
		var groupID string
		if err := rows.Scan(&groupID); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		groups = append(groups, groupID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	return groups, nil
}

func scanSnapshot(row rowScanner) (model.InventorySnapshot, error) {
	var (
		s                                          model.InventorySnapshot
		quarterStr, createdAtStr, updatedAtStr     string
		createdBy, updatedBy                       sql.NullString
		financial, physical, intangible, liability decimal.Decimal
	)

	err := row.Scan(
		&s.ID,
		&s.GroupID,
		&quarterStr,
		&s.TotalYen,
		&financial,
		&physical,
		&intangible,
		&liability,
		&createdBy,
		&updatedBy,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.InventorySnapshot{}, err
	}

	s.CreatedBy = createdBy.String
	s.UpdatedBy = updatedBy.String
	s.TotalByCategory = map[model.Category]decimal.Decimal{
		model.CategoryFinancial:  financial,
		model.CategoryPhysical:   physical,
		model.CategoryIntangible: intangible,
		model.CategoryLiability:  liability,
	}

	if s.QuarterStart, err = ParseTime(quarterStr); err != nil {
		return model.InventorySnapshot{}, err
	}
	if s.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.InventorySnapshot{}, err
	}
	if s.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.InventorySnapshot{}, err
	}

	return s, nil
}
