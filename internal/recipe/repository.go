package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is a database-backed repository for recipes. The ingredient and
// instruction lists are stored as JSON blobs inside the row.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new recipe Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

const recipeColumns = `id, session_id, criterion_id, name, description, ingredients, instructions,
	active_time_minutes, total_time_minutes, servings, notes, state, created_at, planned_at, cooked_at`

// InsertTx persists a recipe inside an existing transaction.
func (r *Repository) InsertTx(ctx context.Context, tx *sql.Tx, rec *Recipe) error {
	ingredientsJSON, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	instructionsJSON, err := json.Marshal(rec.Instructions)
	if err != nil {
		return fmt.Errorf("failed to marshal instructions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recipes (`+recipeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, nullable(rec.SessionID), nullable(rec.CriterionID), rec.Name, rec.Description,
		string(ingredientsJSON), string(instructionsJSON),
		rec.ActiveTimeMinutes, rec.TotalTimeMinutes, rec.Servings,
		nullable(rec.Notes), string(rec.State), rec.CreatedAt, rec.PlannedAt, rec.CookedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// Get retrieves a recipe by ID, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	rec, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return rec, nil
}

// GetTx is Get inside an existing transaction.
func (r *Repository) GetTx(ctx context.Context, tx *sql.Tx, id string) (*Recipe, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	rec, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return rec, nil
}

// ListBySessionAndState retrieves all recipes for a session in a given state,
// ordered by planning time.
func (r *Repository) ListBySessionAndState(ctx context.Context, sessionID string, state State) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE session_id = ? AND state = ? ORDER BY planned_at`,
		sessionID, string(state),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	return recipes, rows.Err()
}

// CountBySessionAndState counts a session's recipes in a given state.
func (r *Repository) CountBySessionAndState(ctx context.Context, sessionID string, state State) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes WHERE session_id = ? AND state = ?`,
		sessionID, string(state),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

// SetStateTx moves a recipe to a new state inside an existing transaction,
// stamping cooked_at when provided.
func (r *Repository) SetStateTx(ctx context.Context, tx *sql.Tx, id string, state State, cookedAt *time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE recipes SET state = ?, cooked_at = ? WHERE id = ?`,
		string(state), cookedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe state: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var (
		rec                      Recipe
		sessionID, criterionID   sql.NullString
		notes                    sql.NullString
		state                    string
		ingredients, instructions string
		cookedAt                 sql.NullTime
	)
	err := row.Scan(&rec.ID, &sessionID, &criterionID, &rec.Name, &rec.Description,
		&ingredients, &instructions, &rec.ActiveTimeMinutes, &rec.TotalTimeMinutes,
		&rec.Servings, &notes, &state, &rec.CreatedAt, &rec.PlannedAt, &cookedAt)
	if err != nil {
		return nil, err
	}
	rec.SessionID = sessionID.String
	rec.CriterionID = criterionID.String
	rec.Notes = notes.String
	rec.State = State(state)
	if cookedAt.Valid {
		t := cookedAt.Time
		rec.CookedAt = &t
	}
	if err := json.Unmarshal([]byte(ingredients), &rec.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(instructions), &rec.Instructions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instructions JSON: %w", err)
	}
	return &rec, nil
}
