package claim

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Repository is a database-backed repository for ingredient claims.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new claim Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// InsertTx persists a claim inside an existing transaction. Claims are only
// ever written as part of a recipe-creation transaction.
func (r *Repository) InsertTx(ctx context.Context, tx *sql.Tx, c *Claim) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ingredient_claims (id, recipe_id, inventory_item_id, ingredient_name, quantity, unit, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.RecipeID, c.InventoryItemID, c.IngredientName, c.Quantity, c.Unit, string(c.State), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

// ReservedTotals sums reserved claim quantities grouped by inventory item.
func (r *Repository) ReservedTotals(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT inventory_item_id, SUM(quantity) FROM ingredient_claims WHERE state = ? GROUP BY inventory_item_id`,
		string(StateReserved),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum reserved claims: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var itemID string
		var total float64
		if err := rows.Scan(&itemID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan claim total: %w", err)
		}
		totals[itemID] = total
	}
	return totals, rows.Err()
}

// ListByRecipe retrieves all claims for one recipe.
func (r *Repository) ListByRecipe(ctx context.Context, recipeID string) ([]Claim, error) {
	return r.list(ctx, r.db.QueryContext,
		`SELECT id, recipe_id, inventory_item_id, ingredient_name, quantity, unit, state, created_at
		 FROM ingredient_claims WHERE recipe_id = ?`, recipeID)
}

// ListByRecipeTx is ListByRecipe inside an existing transaction.
func (r *Repository) ListByRecipeTx(ctx context.Context, tx *sql.Tx, recipeID string) ([]Claim, error) {
	return r.list(ctx, tx.QueryContext,
		`SELECT id, recipe_id, inventory_item_id, ingredient_name, quantity, unit, state, created_at
		 FROM ingredient_claims WHERE recipe_id = ?`, recipeID)
}

// ListByRecipeIDs retrieves claims, in any state, across many recipes.
func (r *Repository) ListByRecipeIDs(ctx context.Context, recipeIDs []string) ([]Claim, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(recipeIDs)-1) + "?"
	args := make([]any, len(recipeIDs))
	for i, id := range recipeIDs {
		args[i] = id
	}
	return r.list(ctx, r.db.QueryContext,
		`SELECT id, recipe_id, inventory_item_id, ingredient_name, quantity, unit, state, created_at
		 FROM ingredient_claims WHERE recipe_id IN (`+placeholders+`)`, args...)
}

// DeleteByRecipeTx removes every claim for a recipe inside an existing
// transaction, returning how many were deleted.
func (r *Repository) DeleteByRecipeTx(ctx context.Context, tx *sql.Tx, recipeID string) (int, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM ingredient_claims WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete claims: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(affected), nil
}

// DeleteReservedByRecipeTx releases a recipe's reserved claims inside an
// existing transaction, leaving any consumed claims untouched.
func (r *Repository) DeleteReservedByRecipeTx(ctx context.Context, tx *sql.Tx, recipeID string) (int, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM ingredient_claims WHERE recipe_id = ? AND state = ?`,
		recipeID, string(StateReserved))
	if err != nil {
		return 0, fmt.Errorf("failed to delete reserved claims: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(affected), nil
}

type queryFunc func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func (r *Repository) list(ctx context.Context, query queryFunc, q string, args ...any) ([]Claim, error) {
	rows, err := query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []Claim
	for rows.Next() {
		var c Claim
		var state string
		if err := rows.Scan(&c.ID, &c.RecipeID, &c.InventoryItemID, &c.IngredientName,
			&c.Quantity, &c.Unit, &state, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		c.State = State(state)
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
