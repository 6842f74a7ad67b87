package claim

import (
	"time"

	"pantry-planner/internal/shared"

	"github.com/google/uuid"
)

// State of an ingredient claim. Reserved claims reduce availability;
// consumed claims are historical and inert.
type State string

const (
	StateReserved State = "reserved"
	StateConsumed State = "consumed"
)

// Claim earmarks a quantity of one inventory item for one recipe. Claims have
// no independent existence; deleting the recipe or the item deletes them.
type Claim struct {
	ID              string    `json:"id"`
	RecipeID        string    `json:"recipe_id"`
	InventoryItemID string    `json:"inventory_item_id"`
	IngredientName  string    `json:"ingredient_name"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	State           State     `json:"state"`
	CreatedAt       time.Time `json:"created_at"`
}

// New constructs a reserved claim, enforcing a strictly positive quantity.
func New(recipeID, inventoryItemID, ingredientName string, quantity float64, unit string) (*Claim, error) {
	if quantity <= 0 {
		return nil, shared.Validationf("claim quantity must be strictly positive, got %v", quantity)
	}
	return &Claim{
		ID:              uuid.NewString(),
		RecipeID:        recipeID,
		InventoryItemID: inventoryItemID,
		IngredientName:  ingredientName,
		Quantity:        quantity,
		Unit:            unit,
		State:           StateReserved,
		CreatedAt:       time.Now().UTC(),
	}, nil
}
