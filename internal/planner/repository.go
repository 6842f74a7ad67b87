package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pantry-planner/internal/shared"

	"github.com/google/uuid"
)

// Repository is a database-backed repository for planning sessions, meal
// criteria, and pitches.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new planner Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// CreateSession inserts a new planning session.
func (r *Repository) CreateSession(ctx context.Context, name string) (*PlanningSession, error) {
	if name == "" {
		return nil, shared.Validationf("planning session requires a name")
	}
	s := &PlanningSession{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO planning_sessions (id, name, created_at) VALUES (?, ?, ?)`,
		s.ID, s.Name, s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert planning session: %w", err)
	}
	return s, nil
}

// GetSession retrieves a session by ID, or nil when it does not exist.
func (r *Repository) GetSession(ctx context.Context, id string) (*PlanningSession, error) {
	var s PlanningSession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM planning_sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planning session: %w", err)
	}
	return &s, nil
}

// ListSessions retrieves all sessions, newest first.
func (r *Repository) ListSessions(ctx context.Context) ([]PlanningSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM planning_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list planning sessions: %w", err)
	}
	defer rows.Close()

	var sessions []PlanningSession
	for rows.Next() {
		var s PlanningSession
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan planning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session; criteria and pitches go with it via
// cascade.
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM planning_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete planning session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("planning session %s: %w", id, shared.ErrNotFound)
	}
	return nil
}

// CreateCriterion inserts a meal criterion, enforcing the per-session slot
// budget.
func (r *Repository) CreateCriterion(ctx context.Context, sessionID, description string, slots int) (*MealCriterion, error) {
	if slots < 1 || slots > MaxSlotsPerSession {
		return nil, shared.Validationf("criterion slots must be between 1 and %d, got %d", MaxSlotsPerSession, slots)
	}
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("planning session %s: %w", sessionID, shared.ErrNotFound)
	}

	var existing int
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(slots), 0) FROM meal_criteria WHERE session_id = ?`, sessionID,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("failed to sum criterion slots: %w", err)
	}
	if existing+slots > MaxSlotsPerSession {
		return nil, shared.Validationf("session slot budget exceeded: %d existing + %d requested > %d",
			existing, slots, MaxSlotsPerSession)
	}

	c := &MealCriterion{ID: uuid.NewString(), SessionID: sessionID, Description: description, Slots: slots}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meal_criteria (id, session_id, description, slots) VALUES (?, ?, ?, ?)`,
		c.ID, c.SessionID, c.Description, c.Slots)
	if err != nil {
		return nil, fmt.Errorf("failed to insert meal criterion: %w", err)
	}
	return c, nil
}

// GetCriterion retrieves a criterion by ID, or nil when it does not exist.
func (r *Repository) GetCriterion(ctx context.Context, id string) (*MealCriterion, error) {
	var c MealCriterion
	err := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, description, slots FROM meal_criteria WHERE id = ?`, id,
	).Scan(&c.ID, &c.SessionID, &c.Description, &c.Slots)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal criterion: %w", err)
	}
	return &c, nil
}

// ListCriteriaBySession retrieves a session's criteria.
func (r *Repository) ListCriteriaBySession(ctx context.Context, sessionID string) ([]MealCriterion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, description, slots FROM meal_criteria WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal criteria: %w", err)
	}
	defer rows.Close()

	var criteria []MealCriterion
	for rows.Next() {
		var c MealCriterion
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Description, &c.Slots); err != nil {
			return nil, fmt.Errorf("failed to scan meal criterion: %w", err)
		}
		criteria = append(criteria, c)
	}
	return criteria, rows.Err()
}

// CreatePitch inserts a pitch, assigning its ID and timestamp.
func (r *Repository) CreatePitch(ctx context.Context, p *Pitch) error {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	ingredientsJSON, err := json.Marshal(p.InventoryIngredients)
	if err != nil {
		return fmt.Errorf("failed to marshal pitch ingredients: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pitches (id, criterion_id, name, blurb, why_make_this, inventory_ingredients, active_time_minutes, rejected, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CriterionID, p.Name, p.Blurb, p.WhyMakeThis, string(ingredientsJSON),
		p.ActiveTimeMinutes, p.Rejected, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pitch: %w", err)
	}
	return nil
}

// GetPitch retrieves a pitch by ID, or nil when it does not exist.
func (r *Repository) GetPitch(ctx context.Context, id string) (*Pitch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, criterion_id, name, blurb, why_make_this, inventory_ingredients, active_time_minutes, rejected, created_at
		 FROM pitches WHERE id = ?`, id)
	p, err := scanPitch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pitch: %w", err)
	}
	return p, nil
}

// ListPitchesBySession retrieves pitches across all of a session's criteria,
// oldest first. Rejected pitches are excluded unless includeRejected is set.
func (r *Repository) ListPitchesBySession(ctx context.Context, sessionID string, includeRejected bool) ([]Pitch, error) {
	q := `SELECT p.id, p.criterion_id, p.name, p.blurb, p.why_make_this, p.inventory_ingredients, p.active_time_minutes, p.rejected, p.created_at
	      FROM pitches p JOIN meal_criteria c ON p.criterion_id = c.id
	      WHERE c.session_id = ?`
	if !includeRejected {
		q += ` AND p.rejected = 0`
	}
	q += ` ORDER BY p.created_at`

	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pitches: %w", err)
	}
	defer rows.Close()

	var pitches []Pitch
	for rows.Next() {
		p, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pitch: %w", err)
		}
		pitches = append(pitches, *p)
	}
	return pitches, rows.Err()
}

// RejectPitch marks a pitch as rejected so it stops counting toward the
// generation target.
func (r *Repository) RejectPitch(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pitches SET rejected = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to reject pitch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("pitch %s: %w", id, shared.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPitch(row rowScanner) (*Pitch, error) {
	var (
		p           Pitch
		ingredients string
	)
	err := row.Scan(&p.ID, &p.CriterionID, &p.Name, &p.Blurb, &p.WhyMakeThis,
		&ingredients, &p.ActiveTimeMinutes, &p.Rejected, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &p.InventoryIngredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pitch ingredients JSON: %w", err)
	}
	return &p, nil
}
