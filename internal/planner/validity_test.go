package planner

import (
	"testing"

	"pantry-planner/internal/inventory"
)

func availableFixture() []inventory.InventoryItem {
	return []inventory.InventoryItem{
		{IngredientName: "Carrots", Quantity: 2.0, Unit: "pounds"},
		{IngredientName: "eggs", Quantity: 6, Unit: "whole"},
		{IngredientName: "flour", Quantity: 0, Unit: "cups"},
	}
}

func TestIsPitchValid(t *testing.T) {
	tests := []struct {
		name  string
		pitch Pitch
		want  bool
	}{
		{
			name: "all ingredients satisfied",
			pitch: Pitch{InventoryIngredients: []PitchIngredient{
				{Name: "carrots", Quantity: 1.5, Unit: "pounds"},
				{Name: "eggs", Quantity: 2, Unit: "whole"},
			}},
			want: true,
		},
		{
			name: "name match is case-insensitive",
			pitch: Pitch{InventoryIngredients: []PitchIngredient{
				{Name: "CARROTS", Quantity: 1, Unit: "pounds"},
			}},
			want: true,
		},
		{
			name: "unit mismatch invalidates even with quantity to spare",
			pitch: Pitch{InventoryIngredients: []PitchIngredient{
				{Name: "carrots", Quantity: 0.5, Unit: "kg"},
			}},
			want: false,
		},
		{
			name: "insufficient quantity",
			pitch: Pitch{InventoryIngredients: []PitchIngredient{
				{Name: "eggs", Quantity: 12, Unit: "whole"},
			}},
			want: false,
		},
		{
			name: "fully reserved item cannot satisfy anything",
			pitch: Pitch{InventoryIngredients: []PitchIngredient{
				{Name: "flour", Quantity: 0, Unit: "cups"},
			}},
			want: false,
		},
		{
			name: "one unsatisfied ingredient sinks the pitch",
			pitch: Pitch{InventoryIngredients: []PitchIngredient{
				{Name: "carrots", Quantity: 1, Unit: "pounds"},
				{Name: "saffron", Quantity: 1, Unit: "grams"},
			}},
			want: false,
		},
		{
			name:  "no inventory requirements is trivially valid",
			pitch: Pitch{},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPitchValid(tt.pitch, availableFixture()); got != tt.want {
				t.Errorf("IsPitchValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterValidPitchesPreservesOrder(t *testing.T) {
	pitches := []Pitch{
		{Name: "frittata", InventoryIngredients: []PitchIngredient{{Name: "eggs", Quantity: 4, Unit: "whole"}}},
		{Name: "cake", InventoryIngredients: []PitchIngredient{{Name: "flour", Quantity: 2, Unit: "cups"}}},
		{Name: "glazed carrots", InventoryIngredients: []PitchIngredient{{Name: "carrots", Quantity: 1, Unit: "pounds"}}},
	}

	valid := FilterValidPitches(pitches, availableFixture())
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid pitches, got %d", len(valid))
	}
	if valid[0].Name != "frittata" || valid[1].Name != "glazed carrots" {
		t.Errorf("order not preserved: got %q then %q", valid[0].Name, valid[1].Name)
	}
}
