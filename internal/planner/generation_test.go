package planner

import (
	"context"
	"path/filepath"
	"testing"

	"pantry-planner/internal/claim"
	"pantry-planner/internal/database"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"
)

func TestPitchTarget(t *testing.T) {
	tests := []struct {
		name    string
		slots   int
		planned int
		want    int
	}{
		{"empty session", 0, 0, 0},
		{"three unfilled slots", 3, 0, 9},
		{"one slot filled", 3, 1, 6},
		{"all slots filled", 3, 3, 0},
		{"overfilled never goes negative", 3, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PitchTarget(tt.slots, tt.planned); got != tt.want {
				t.Errorf("PitchTarget(%d, %d) = %d, want %d", tt.slots, tt.planned, got, tt.want)
			}
		})
	}
}

func TestPitchDelta(t *testing.T) {
	if got := PitchDelta(9, 4); got != 5 {
		t.Errorf("PitchDelta(9, 4) = %d, want 5", got)
	}
	if got := PitchDelta(6, 9); got != 0 {
		t.Errorf("PitchDelta(6, 9) = %d, want 0", got)
	}
}

type plannerFixture struct {
	svc       *Service
	repo      *Repository
	recipeSvc *recipe.Service
	items     *inventory.ItemRepository
	stores    *inventory.StoreRepository
	gen       *mockTextGenerator
}

type mockTextGenerator struct {
	responses []string
	calls     int
	prompts   []string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.prompts = append(m.prompts, prompt)
	resp := m.responses[m.calls%len(m.responses)]
	m.calls++
	return llm.ContentResponse{Content: resp, Usage: shared.TokenUsage{TotalTokens: 10, Model: "mock"}}, nil
}

func newPlannerFixture(t *testing.T) *plannerFixture {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stores := inventory.NewStoreRepository(db.SQL)
	items := inventory.NewItemRepository(db.SQL)
	claims := claim.NewRepository(db.SQL)
	recipes := recipe.NewRepository(db.SQL)
	recipeSvc := recipe.NewService(db.SQL, recipes, claims, items)
	inventorySvc := inventory.NewService(stores, items, claims)
	repo := NewRepository(db.SQL)
	gen := &mockTextGenerator{responses: []string{`{"pitches": []}`}}

	return &plannerFixture{
		svc:       NewService(repo, recipes, recipeSvc, inventorySvc, gen),
		repo:      repo,
		recipeSvc: recipeSvc,
		items:     items,
		stores:    stores,
		gen:       gen,
	}
}

func (f *plannerFixture) addItem(t *testing.T, name string, quantity float64, unit string) {
	t.Helper()
	ctx := context.Background()
	store, err := f.stores.EnsureDefault(ctx, "Test Store")
	if err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
	item := &inventory.InventoryItem{
		StoreID:        store.ID,
		IngredientName: name,
		Quantity:       quantity,
		Unit:           unit,
	}
	if err := f.items.Create(ctx, item); err != nil {
		t.Fatalf("Failed to create inventory item: %v", err)
	}
}

func TestPitchGenerationDelta(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)
	f.addItem(t, "eggs", 12, "whole")

	session, err := f.repo.CreateSession(ctx, "This week")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	criterion, err := f.repo.CreateCriterion(ctx, session.ID, "quick weeknight dinners", 3)
	if err != nil {
		t.Fatalf("Failed to create criterion: %v", err)
	}

	t.Run("FreshSessionWantsThreePerSlot", func(t *testing.T) {
		delta, err := f.svc.PitchGenerationDelta(ctx, session.ID)
		if err != nil {
			t.Fatalf("PitchGenerationDelta failed: %v", err)
		}
		if delta != 9 {
			t.Errorf("Expected delta 9 for 3 empty slots, got %d", delta)
		}
	})

	t.Run("ValidPitchesReduceDelta", func(t *testing.T) {
		p := &Pitch{
			CriterionID: criterion.ID,
			Name:        "Frittata",
			InventoryIngredients: []PitchIngredient{
				{Name: "eggs", Quantity: 4, Unit: "whole"},
			},
		}
		if err := f.repo.CreatePitch(ctx, p); err != nil {
			t.Fatalf("Failed to create pitch: %v", err)
		}

		delta, err := f.svc.PitchGenerationDelta(ctx, session.ID)
		if err != nil {
			t.Fatalf("PitchGenerationDelta failed: %v", err)
		}
		if delta != 8 {
			t.Errorf("Expected delta 8 after one valid pitch, got %d", delta)
		}
	})

	t.Run("InvalidPitchesDoNotCount", func(t *testing.T) {
		p := &Pitch{
			CriterionID: criterion.ID,
			Name:        "Saffron Risotto",
			InventoryIngredients: []PitchIngredient{
				{Name: "saffron", Quantity: 1, Unit: "grams"},
			},
		}
		if err := f.repo.CreatePitch(ctx, p); err != nil {
			t.Fatalf("Failed to create pitch: %v", err)
		}

		delta, err := f.svc.PitchGenerationDelta(ctx, session.ID)
		if err != nil {
			t.Fatalf("PitchGenerationDelta failed: %v", err)
		}
		if delta != 8 {
			t.Errorf("Expected invalid pitch to be ignored, got delta %d", delta)
		}
	})

	t.Run("RejectedPitchesDoNotCount", func(t *testing.T) {
		p := &Pitch{
			CriterionID: criterion.ID,
			Name:        "Scrambled Eggs",
			InventoryIngredients: []PitchIngredient{
				{Name: "eggs", Quantity: 2, Unit: "whole"},
			},
		}
		if err := f.repo.CreatePitch(ctx, p); err != nil {
			t.Fatalf("Failed to create pitch: %v", err)
		}
		if err := f.repo.RejectPitch(ctx, p.ID); err != nil {
			t.Fatalf("Failed to reject pitch: %v", err)
		}

		delta, err := f.svc.PitchGenerationDelta(ctx, session.ID)
		if err != nil {
			t.Fatalf("PitchGenerationDelta failed: %v", err)
		}
		if delta != 8 {
			t.Errorf("Expected rejected pitch to be ignored, got delta %d", delta)
		}
	})

	t.Run("PlannedRecipeFillsSlot", func(t *testing.T) {
		_, _, err := f.recipeSvc.CreateWithClaims(ctx, recipe.NewRecipe{
			SessionID:   session.ID,
			CriterionID: criterion.ID,
			Name:        "Egg Fried Rice",
			Ingredients: []recipe.Ingredient{
				{Name: "eggs", Quantity: "2", Unit: "whole"},
			},
			Instructions: []string{"Fry the rice. Add the eggs."},
		})
		if err != nil {
			t.Fatalf("Failed to create recipe: %v", err)
		}

		delta, err := f.svc.PitchGenerationDelta(ctx, session.ID)
		if err != nil {
			t.Fatalf("PitchGenerationDelta failed: %v", err)
		}
		// Two unfilled slots want 6 pitches; one valid pitch remains on
		// offer (the frittata, since eggs now show 10 available).
		if delta != 5 {
			t.Errorf("Expected delta 5 after filling one slot, got %d", delta)
		}
	})

	t.Run("SessionWithoutCriteria", func(t *testing.T) {
		empty, err := f.repo.CreateSession(ctx, "empty")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		delta, err := f.svc.PitchGenerationDelta(ctx, empty.ID)
		if err != nil {
			t.Fatalf("PitchGenerationDelta failed: %v", err)
		}
		if delta != 0 {
			t.Errorf("Expected delta 0 for session without criteria, got %d", delta)
		}
	})
}
