package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pantry-planner/internal/shared"
)

func TestGeneratePitches(t *testing.T) {
	ctx := context.Background()

	t.Run("FillsDeficitInOneWave", func(t *testing.T) {
		f := newPlannerFixture(t)
		f.addItem(t, "eggs", 12, "whole")
		f.addItem(t, "spinach", 2, "bunches")

		session, err := f.repo.CreateSession(ctx, "This week")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if _, err := f.repo.CreateCriterion(ctx, session.ID, "one hearty breakfast", 1); err != nil {
			t.Fatalf("Failed to create criterion: %v", err)
		}

		f.gen.responses = []string{`{
			"pitches": [
				{"name": "Spinach Frittata", "blurb": "Eggs and greens", "why_make_this": "Uses the spinach before it wilts", "inventory_ingredients": [{"name": "eggs", "quantity": 6, "unit": "whole"}, {"name": "spinach", "quantity": 1, "unit": "bunches"}], "active_time_minutes": 25},
				{"name": "Soft Scramble", "blurb": "Quick eggs", "why_make_this": "Fast", "inventory_ingredients": [{"name": "eggs", "quantity": 3, "unit": "whole"}], "active_time_minutes": 10},
				{"name": "Shakshuka", "blurb": "Eggs in sauce", "why_make_this": "Comforting", "inventory_ingredients": [{"name": "eggs", "quantity": 4, "unit": "whole"}], "active_time_minutes": 35}
			]
		}`}

		created, metas, err := f.svc.GeneratePitches(ctx, session.ID)
		if err != nil {
			t.Fatalf("GeneratePitches failed: %v", err)
		}
		if len(created) != 3 {
			t.Fatalf("Expected 3 pitches created, got %d", len(created))
		}
		if f.gen.calls != 1 {
			t.Errorf("Expected a single generation call, got %d", f.gen.calls)
		}
		if len(metas) != 1 || metas[0].AgentName != "pitch-generator" {
			t.Errorf("Unexpected agent metadata: %+v", metas)
		}

		// The deficit is now closed, so a second run is a no-op.
		again, _, err := f.svc.GeneratePitches(ctx, session.ID)
		if err != nil {
			t.Fatalf("GeneratePitches failed: %v", err)
		}
		if len(again) != 0 {
			t.Errorf("Expected no pitches on a satisfied session, got %d", len(again))
		}
	})

	t.Run("RetriesWhenPitchesAreInvalid", func(t *testing.T) {
		f := newPlannerFixture(t)
		f.addItem(t, "eggs", 12, "whole")

		session, err := f.repo.CreateSession(ctx, "This week")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if _, err := f.repo.CreateCriterion(ctx, session.ID, "one dinner", 1); err != nil {
			t.Fatalf("Failed to create criterion: %v", err)
		}

		// First wave over-asks the inventory; second wave behaves.
		f.gen.responses = []string{
			`{"pitches": [
				{"name": "Giant Omelette", "inventory_ingredients": [{"name": "eggs", "quantity": 40, "unit": "whole"}]},
				{"name": "Egg Salad", "inventory_ingredients": [{"name": "eggs", "quantity": 6, "unit": "whole"}]},
				{"name": "Deviled Eggs", "inventory_ingredients": [{"name": "eggs", "quantity": 8, "unit": "whole"}]}
			]}`,
			`{"pitches": [
				{"name": "Fried Egg Sandwich", "inventory_ingredients": [{"name": "eggs", "quantity": 2, "unit": "whole"}]}
			]}`,
		}

		created, _, err := f.svc.GeneratePitches(ctx, session.ID)
		if err != nil {
			t.Fatalf("GeneratePitches failed: %v", err)
		}
		if f.gen.calls != 2 {
			t.Errorf("Expected a second wave for the invalid pitch, got %d calls", f.gen.calls)
		}
		if len(created) != 4 {
			t.Errorf("Expected 4 pitches persisted across waves, got %d", len(created))
		}
	})

	t.Run("PromptCarriesInventoryAndContext", func(t *testing.T) {
		f := newPlannerFixture(t)
		f.svc.HouseholdContext = "Two adults, one toddler"
		f.svc.PantryStaples = "salt, olive oil"
		f.addItem(t, "carrots", 2, "pounds")

		session, err := f.repo.CreateSession(ctx, "This week")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if _, err := f.repo.CreateCriterion(ctx, session.ID, "one soup", 1); err != nil {
			t.Fatalf("Failed to create criterion: %v", err)
		}

		if _, _, err := f.svc.GeneratePitches(ctx, session.ID); err != nil {
			t.Fatalf("GeneratePitches failed: %v", err)
		}
		if len(f.gen.prompts) == 0 {
			t.Fatal("Expected at least one prompt")
		}
		prompt := f.gen.prompts[0]
		for _, want := range []string{"carrots", "one soup", "Two adults, one toddler", "salt, olive oil"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("Prompt missing %q", want)
			}
		}
	})

	t.Run("UnknownSession", func(t *testing.T) {
		f := newPlannerFixture(t)
		_, _, err := f.svc.GeneratePitches(ctx, "nope")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestFleshOut(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesRecipeWithClaims", func(t *testing.T) {
		f := newPlannerFixture(t)
		f.addItem(t, "eggs", 12, "whole")

		session, err := f.repo.CreateSession(ctx, "This week")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		criterion, err := f.repo.CreateCriterion(ctx, session.ID, "one breakfast", 1)
		if err != nil {
			t.Fatalf("Failed to create criterion: %v", err)
		}
		pitch := &Pitch{
			CriterionID: criterion.ID,
			Name:        "Frittata",
			InventoryIngredients: []PitchIngredient{
				{Name: "eggs", Quantity: 6, Unit: "whole"},
			},
		}
		if err := f.repo.CreatePitch(ctx, pitch); err != nil {
			t.Fatalf("Failed to create pitch: %v", err)
		}

		f.gen.responses = []string{`{
			"name": "Spinach Frittata",
			"description": "A simple oven frittata.",
			"ingredients": [
				{"name": "eggs", "quantity": "6", "unit": "whole", "preparation": "beaten", "purchase_likelihood": 0.0},
				{"name": "feta", "quantity": "100", "unit": "grams", "purchase_likelihood": 0.9}
			],
			"instructions": ["Beat the eggs.", "Bake at 180C for 20 minutes."],
			"active_time_minutes": 15,
			"total_time_minutes": 40,
			"servings": 4
		}`}

		rec, claims, meta, err := f.svc.FleshOut(ctx, pitch.ID)
		if err != nil {
			t.Fatalf("FleshOut failed: %v", err)
		}
		if rec.Name != "Spinach Frittata" {
			t.Errorf("Unexpected recipe name %q", rec.Name)
		}
		if rec.SessionID != session.ID || rec.CriterionID != criterion.ID {
			t.Errorf("Recipe not linked to session/criterion: %+v", rec)
		}
		if len(claims) != 1 || claims[0].IngredientName != "eggs" || claims[0].Quantity != 6 {
			t.Errorf("Expected a single claim on eggs for 6, got %+v", claims)
		}
		if meta.AgentName != "recipe-writer" {
			t.Errorf("Unexpected agent name %q", meta.AgentName)
		}
	})

	t.Run("UnknownPitch", func(t *testing.T) {
		f := newPlannerFixture(t)
		_, _, _, err := f.svc.FleshOut(ctx, "nope")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
