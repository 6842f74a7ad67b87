package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pantry-planner/internal/shared"

	"github.com/google/uuid"
)

// StoreRepository is a database-backed repository for grocery stores.
type StoreRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(d *sql.DB) *StoreRepository {
	return &StoreRepository{db: d}
}

// Create inserts a new grocery store.
func (r *StoreRepository) Create(ctx context.Context, name, description string) (*GroceryStore, error) {
	if name == "" {
		return nil, shared.Validationf("grocery store requires a name")
	}
	store := &GroceryStore{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO grocery_stores (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		store.ID, store.Name, store.Description, store.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert grocery store: %w", err)
	}
	return store, nil
}

// GetByName retrieves a store by its unique name.
func (r *StoreRepository) GetByName(ctx context.Context, name string) (*GroceryStore, error) {
	var s GroceryStore
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM grocery_stores WHERE name = ?`, name,
	).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grocery store by name: %w", err)
	}
	return &s, nil
}

// List retrieves all grocery stores ordered by name.
func (r *StoreRepository) List(ctx context.Context) ([]GroceryStore, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM grocery_stores ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery stores: %w", err)
	}
	defer rows.Close()

	var stores []GroceryStore
	for rows.Next() {
		var s GroceryStore
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grocery store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// Delete removes a grocery store. The last remaining store can never be
// deleted; inventory always needs somewhere to live.
func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grocery_stores`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count grocery stores: %w", err)
	}
	if count <= 1 {
		return shared.Validationf("cannot delete the last grocery store")
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM grocery_stores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete grocery store: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("grocery store %s: %w", id, shared.ErrNotFound)
	}
	return nil
}

// EnsureDefault idempotently seeds a store with the given name. Called once
// at startup so at least one store always exists.
func (r *StoreRepository) EnsureDefault(ctx context.Context, name string) (*GroceryStore, error) {
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return r.Create(ctx, name, "Default store")
}

// ItemRepository is a database-backed repository for inventory items.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(d *sql.DB) *ItemRepository {
	return &ItemRepository{db: d}
}

// Create inserts a new inventory item, assigning its ID and timestamp.
func (r *ItemRepository) Create(ctx context.Context, item *InventoryItem) error {
	if item.Priority == "" {
		item.Priority = PriorityMedium
	}
	if err := item.Validate(); err != nil {
		return err
	}
	item.ID = uuid.NewString()
	item.AddedAt = time.Now().UTC()

	var portion sql.NullString
	if item.PortionSize != "" {
		portion = sql.NullString{String: item.PortionSize, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory_items (id, store_id, ingredient_name, quantity, unit, priority, portion_size, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.StoreID, item.IngredientName, item.Quantity, item.Unit,
		string(item.Priority), portion, item.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

// Get retrieves an item by ID, including soft-deleted ones.
func (r *ItemRepository) Get(ctx context.Context, id string) (*InventoryItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, store_id, ingredient_name, quantity, unit, priority, portion_size, added_at, deleted_at
		 FROM inventory_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

// ListActive retrieves all items that have not been soft-deleted.
func (r *ItemRepository) ListActive(ctx context.Context) ([]InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, store_id, ingredient_name, quantity, unit, priority, portion_size, added_at, deleted_at
		 FROM inventory_items WHERE deleted_at IS NULL ORDER BY ingredient_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SoftDelete marks an item as deleted without removing the row, preserving
// referential integrity with historical claims.
func (r *ItemRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory_items SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete inventory item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("inventory item %s: %w", id, shared.ErrNotFound)
	}
	return nil
}

// DecrementTx reduces an item's physical quantity by amount, floored at zero,
// inside an existing transaction. Returns false when the item is missing or
// soft-deleted, which callers treat as a silent skip.
func (r *ItemRepository) DecrementTx(ctx context.Context, tx *sql.Tx, id string, amount float64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = MAX(0, quantity - ?) WHERE id = ? AND deleted_at IS NULL`,
		amount, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to decrement inventory item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*InventoryItem, error) {
	var (
		item      InventoryItem
		priority  string
		portion   sql.NullString
		deletedAt sql.NullTime
	)
	err := row.Scan(&item.ID, &item.StoreID, &item.IngredientName, &item.Quantity,
		&item.Unit, &priority, &portion, &item.AddedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	item.Priority = Priority(priority)
	if portion.Valid {
		item.PortionSize = portion.String
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		item.DeletedAt = &t
	}
	return &item, nil
}
