package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pantry-planner/internal/claim"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/shared"

	"github.com/google/uuid"
)

// NewRecipe is the payload for creating a recipe, typically produced by the
// flesh-out LLM call.
type NewRecipe struct {
	SessionID         string       `json:"session_id,omitempty"`
	CriterionID       string       `json:"criterion_id,omitempty"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Ingredients       []Ingredient `json:"ingredients"`
	Instructions      []string     `json:"instructions"`
	ActiveTimeMinutes int          `json:"active_time_minutes"`
	TotalTimeMinutes  int          `json:"total_time_minutes"`
	Servings          int          `json:"servings"`
	Notes             string       `json:"notes,omitempty"`
}

// LifecycleResult reports what a cook or abandon transition did.
type LifecycleResult struct {
	State                     State `json:"state"`
	ClaimsDeleted             int   `json:"claims_deleted"`
	InventoryItemsDecremented int   `json:"inventory_items_decremented"`
}

// Service owns the recipe lifecycle: atomic creation with inventory claims,
// and the planned -> cooked / planned -> abandoned transitions.
type Service struct {
	db      *sql.DB
	recipes *Repository
	claims  *claim.Repository
	items   *inventory.ItemRepository
}

// NewService creates a recipe Service.
func NewService(db *sql.DB, recipes *Repository, claims *claim.Repository, items *inventory.ItemRepository) *Service {
	return &Service{db: db, recipes: recipes, claims: claims, items: items}
}

// CreateWithClaims persists a new planned recipe together with a reserved
// claim for every ingredient whose name matches a non-deleted inventory item
// (case-insensitive; units are recorded as the recipe wrote them, no unit
// check). Either the recipe and all its claims commit, or nothing does.
// Ingredients without matching inventory produce no claim; they surface later
// as shopping-list candidates.
//
// Availability is not re-checked here, so concurrent creations can reserve
// more than is physically present; the availability snapshot floors at zero.
func (s *Service) CreateWithClaims(ctx context.Context, data NewRecipe) (*Recipe, []claim.Claim, error) {
	if data.Name == "" {
		return nil, nil, shared.Validationf("recipe requires a name")
	}

	items, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	lookup := make(map[string]inventory.InventoryItem, len(items))
	for _, item := range items {
		key := strings.ToLower(item.IngredientName)
		if _, exists := lookup[key]; !exists {
			lookup[key] = item
		}
	}

	now := time.Now().UTC()
	rec := &Recipe{
		ID:                uuid.NewString(),
		SessionID:         data.SessionID,
		CriterionID:       data.CriterionID,
		Name:              data.Name,
		Description:       data.Description,
		Ingredients:       data.Ingredients,
		Instructions:      data.Instructions,
		ActiveTimeMinutes: data.ActiveTimeMinutes,
		TotalTimeMinutes:  data.TotalTimeMinutes,
		Servings:          data.Servings,
		Notes:             data.Notes,
		State:             StatePlanned,
		CreatedAt:         now,
		PlannedAt:         now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recipes.InsertTx(ctx, tx, rec); err != nil {
		return nil, nil, err
	}

	var claims []claim.Claim
	for _, ing := range rec.Ingredients {
		item, ok := lookup[strings.ToLower(ing.Name)]
		if !ok {
			continue
		}
		c, err := claim.New(rec.ID, item.ID, ing.Name, ParseQuantity(ing.Quantity), ing.Unit)
		if err != nil {
			return nil, nil, err
		}
		if err := s.claims.InsertTx(ctx, tx, c); err != nil {
			return nil, nil, err
		}
		claims = append(claims, *c)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit recipe creation: %w", err)
	}
	return rec, claims, nil
}

// Cook consumes a planned recipe: each reserved claim decrements its
// inventory item's physical quantity (floored at zero, silently skipping
// items deleted since claiming), every claim is removed, and the recipe moves
// to cooked. Calling Cook on an already-terminal recipe is an idempotent
// no-op reporting zero deltas.
func (s *Service) Cook(ctx context.Context, recipeID string) (*LifecycleResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := s.recipes.GetTx(ctx, tx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("recipe %s: %w", recipeID, shared.ErrNotFound)
	}
	if rec.State.Terminal() {
		return &LifecycleResult{State: rec.State}, nil
	}

	claims, err := s.claims.ListByRecipeTx(ctx, tx, recipeID)
	if err != nil {
		return nil, err
	}

	decremented := 0
	for _, c := range claims {
		if c.State != claim.StateReserved {
			continue
		}
		ok, err := s.items.DecrementTx(ctx, tx, c.InventoryItemID, c.Quantity)
		if err != nil {
			return nil, err
		}
		if ok {
			decremented++
		}
	}

	deleted, err := s.claims.DeleteByRecipeTx(ctx, tx, recipeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.recipes.SetStateTx(ctx, tx, recipeID, StateCooked, &now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cook: %w", err)
	}

	return &LifecycleResult{
		State:                     StateCooked,
		ClaimsDeleted:             deleted,
		InventoryItemsDecremented: decremented,
	}, nil
}

// Abandon releases a planned recipe: its reserved claims are deleted without
// touching inventory and the recipe moves to abandoned. cooked_at stays
// unset. Same not-found and idempotency rules as Cook.
func (s *Service) Abandon(ctx context.Context, recipeID string) (*LifecycleResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := s.recipes.GetTx(ctx, tx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("recipe %s: %w", recipeID, shared.ErrNotFound)
	}
	if rec.State.Terminal() {
		return &LifecycleResult{State: rec.State}, nil
	}

	deleted, err := s.claims.DeleteReservedByRecipeTx(ctx, tx, recipeID)
	if err != nil {
		return nil, err
	}

	if err := s.recipes.SetStateTx(ctx, tx, recipeID, StateAbandoned, nil); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit abandon: %w", err)
	}

	return &LifecycleResult{State: StateAbandoned, ClaimsDeleted: deleted}, nil
}
