package telegram

import (
	"strings"
	"testing"

	"pantry-planner/internal/shopping"
)

func TestFormatShoppingList(t *testing.T) {
	list := shopping.List{
		GroceryItems: []shopping.ListItem{
			{IngredientName: "Tomatoes", TotalQuantity: "2 cups + 1 whole", PurchaseLikelihood: 0.8},
			{IngredientName: "feta", TotalQuantity: "100 grams", PurchaseLikelihood: 0.9},
		},
		PantryStaples: []shopping.ListItem{
			{IngredientName: "salt", TotalQuantity: "1 tsp", PurchaseLikelihood: 0.05},
		},
	}

	out := formatShoppingList("This week", list)

	if !strings.Contains(out, "🛒 *Shopping list for This week*") {
		t.Error("Missing header")
	}
	if !strings.Contains(out, "- Tomatoes: 2 cups + 1 whole") {
		t.Error("Missing aggregated grocery item")
	}
	if !strings.Contains(out, "*Check the pantry:*") {
		t.Error("Missing pantry section")
	}
	if !strings.Contains(out, "- salt: 1 tsp") {
		t.Error("Missing pantry item")
	}
}

func TestFormatShoppingListEmpty(t *testing.T) {
	out := formatShoppingList("This week", shopping.List{})
	if !strings.Contains(out, "Nothing to buy.") {
		t.Error("Expected empty-list message")
	}
}
