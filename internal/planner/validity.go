package planner

import (
	"strings"

	"pantry-planner/internal/inventory"
)

// IsPitchValid reports whether every ingredient a pitch requires can be
// satisfied by the availability snapshot: the ingredient name must match
// case-insensitively, the unit must match exactly (no conversion, "cups"
// never satisfies "whole"), and the available quantity must cover the
// requirement. One unsatisfiable ingredient invalidates the whole pitch.
// A pitch requiring nothing is trivially valid.
func IsPitchValid(p Pitch, available []inventory.InventoryItem) bool {
	for _, req := range p.InventoryIngredients {
		if !ingredientSatisfied(req, available) {
			return false
		}
	}
	return true
}

// FilterValidPitches returns the pitches that pass IsPitchValid, preserving
// input order.
func FilterValidPitches(pitches []Pitch, available []inventory.InventoryItem) []Pitch {
	var valid []Pitch
	for _, p := range pitches {
		if IsPitchValid(p, available) {
			valid = append(valid, p)
		}
	}
	return valid
}

func ingredientSatisfied(req PitchIngredient, available []inventory.InventoryItem) bool {
	name := strings.ToLower(req.Name)
	for _, item := range available {
		if strings.ToLower(item.IngredientName) != name {
			continue
		}
		if item.Unit != req.Unit {
			continue
		}
		if item.Quantity >= req.Quantity && item.Quantity > 0 {
			return true
		}
	}
	return false
}
