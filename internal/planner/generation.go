package planner

import (
	"context"

	"pantry-planner/internal/recipe"
)

// PitchesPerSlot is the fixed number of pitch candidates generated for every
// unfilled recipe slot, so the user always has a choice.
const PitchesPerSlot = 3

// PitchTarget computes how many pitches a session should have on offer:
// unfilled slots times PitchesPerSlot. Fleshed-out recipes beyond the slot
// count never drive the target negative.
func PitchTarget(totalSlots, plannedRecipes int) int {
	unfilled := totalSlots - plannedRecipes
	if unfilled < 0 {
		unfilled = 0
	}
	return unfilled * PitchesPerSlot
}

// PitchDelta computes how many additional pitches to request from the
// generator given the target and the count of currently valid, non-rejected
// pitches. Never negative.
func PitchDelta(target, validPitches int) int {
	delta := target - validPitches
	if delta < 0 {
		return 0
	}
	return delta
}

// PitchGenerationDelta reads the session's current state and returns how many
// additional pitches the external generator should produce. Zero when the
// session has no criteria or existing valid pitches already meet the target.
// Read-only; the LLM call happens elsewhere.
func (s *Service) PitchGenerationDelta(ctx context.Context, sessionID string) (int, error) {
	criteria, err := s.repo.ListCriteriaBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if len(criteria) == 0 {
		return 0, nil
	}

	totalSlots := 0
	for _, c := range criteria {
		totalSlots += c.Slots
	}

	planned, err := s.recipes.CountBySessionAndState(ctx, sessionID, recipe.StatePlanned)
	if err != nil {
		return 0, err
	}

	pitches, err := s.repo.ListPitchesBySession(ctx, sessionID, false)
	if err != nil {
		return 0, err
	}

	available, err := s.inventorySvc.CalculateAvailable(ctx)
	if err != nil {
		return 0, err
	}

	valid := len(FilterValidPitches(pitches, available))
	return PitchDelta(PitchTarget(totalSlots, planned), valid), nil
}
