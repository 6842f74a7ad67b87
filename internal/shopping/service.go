package shopping

import (
	"context"

	"pantry-planner/internal/claim"
	"pantry-planner/internal/recipe"
)

// Service computes shopping lists from a session's planned recipes and their
// inventory claims.
type Service struct {
	recipes *recipe.Repository
	claims  *claim.Repository
}

func NewService(recipes *recipe.Repository, claims *claim.Repository) *Service {
	return &Service{recipes: recipes, claims: claims}
}

// Compute builds the shopping list for a session. Only recipes still in the
// planned state contribute; cooked and abandoned recipes are out of scope.
func (s *Service) Compute(ctx context.Context, sessionID string) (List, error) {
	planned, err := s.recipes.ListBySessionAndState(ctx, sessionID, recipe.StatePlanned)
	if err != nil {
		return List{}, err
	}
	if len(planned) == 0 {
		return List{}, nil
	}

	recipeIDs := make([]string, len(planned))
	for i, rec := range planned {
		recipeIDs[i] = rec.ID
	}
	claims, err := s.claims.ListByRecipeIDs(ctx, recipeIDs)
	if err != nil {
		return List{}, err
	}

	claimed := make(map[string]bool, len(claims))
	for _, c := range claims {
		claimed[ClaimedKey(c.RecipeID, c.IngredientName)] = true
	}
	return Aggregate(planned, claimed), nil
}
