package shopping

import (
	"reflect"
	"testing"

	"pantry-planner/internal/recipe"
)

func TestAggregate(t *testing.T) {
	t.Run("MergesAcrossRecipes", func(t *testing.T) {
		recipes := []recipe.Recipe{
			{
				ID: "r1", Name: "Pasta Sauce",
				Ingredients: []recipe.Ingredient{
					{Name: "Tomatoes", Quantity: "2", Unit: "cups", PurchaseLikelihood: 0.7},
					{Name: "salt", Quantity: "1", Unit: "tsp", PurchaseLikelihood: 0.05},
				},
			},
			{
				ID: "r2", Name: "Bruschetta",
				Ingredients: []recipe.Ingredient{
					{Name: "tomatoes", Quantity: "1", Unit: "whole", PurchaseLikelihood: 0.9},
				},
			},
		}

		list := Aggregate(recipes, nil)

		if len(list.GroceryItems) != 1 {
			t.Fatalf("Expected 1 grocery item, got %d", len(list.GroceryItems))
		}
		tomatoes := list.GroceryItems[0]
		if tomatoes.IngredientName != "Tomatoes" {
			t.Errorf("Expected first-seen casing 'Tomatoes', got %q", tomatoes.IngredientName)
		}
		if tomatoes.TotalQuantity != "2 cups + 1 whole" {
			t.Errorf("Expected quantity '2 cups + 1 whole', got %q", tomatoes.TotalQuantity)
		}
		if tomatoes.PurchaseLikelihood != 0.8 {
			t.Errorf("Expected averaged likelihood 0.8, got %v", tomatoes.PurchaseLikelihood)
		}
		if !reflect.DeepEqual(tomatoes.UsedInRecipes, []string{"Bruschetta", "Pasta Sauce"}) {
			t.Errorf("Unexpected recipe attribution: %v", tomatoes.UsedInRecipes)
		}

		if len(list.PantryStaples) != 1 || list.PantryStaples[0].IngredientName != "salt" {
			t.Errorf("Expected salt on the pantry list, got %+v", list.PantryStaples)
		}
	})

	t.Run("ClaimedIngredientsExcluded", func(t *testing.T) {
		recipes := []recipe.Recipe{
			{
				ID: "r1", Name: "Frittata",
				Ingredients: []recipe.Ingredient{
					{Name: "Eggs", Quantity: "6", Unit: "whole", PurchaseLikelihood: 0.5},
					{Name: "feta", Quantity: "100", Unit: "grams", PurchaseLikelihood: 0.9},
				},
			},
		}
		claimed := map[string]bool{
			ClaimedKey("r1", "eggs"): true,
		}

		list := Aggregate(recipes, claimed)

		if len(list.GroceryItems) != 1 || list.GroceryItems[0].IngredientName != "feta" {
			t.Errorf("Expected only feta on the list, got %+v", list.GroceryItems)
		}
	})

	t.Run("ClaimExcludesOnlyItsRecipe", func(t *testing.T) {
		recipes := []recipe.Recipe{
			{ID: "r1", Name: "A", Ingredients: []recipe.Ingredient{{Name: "eggs", Quantity: "2", Unit: "whole", PurchaseLikelihood: 0.5}}},
			{ID: "r2", Name: "B", Ingredients: []recipe.Ingredient{{Name: "eggs", Quantity: "4", Unit: "whole", PurchaseLikelihood: 0.5}}},
		}
		claimed := map[string]bool{ClaimedKey("r1", "eggs"): true}

		list := Aggregate(recipes, claimed)

		if len(list.GroceryItems) != 1 {
			t.Fatalf("Expected eggs from r2 on the list, got %+v", list.GroceryItems)
		}
		if got := list.GroceryItems[0].TotalQuantity; got != "4 whole" {
			t.Errorf("Expected only the unclaimed quantity, got %q", got)
		}
	})

	t.Run("ThresholdIsInclusive", func(t *testing.T) {
		recipes := []recipe.Recipe{
			{ID: "r1", Name: "A", Ingredients: []recipe.Ingredient{
				{Name: "butter", Quantity: "1", Unit: "stick", PurchaseLikelihood: 0.3},
				{Name: "pepper", Quantity: "1", Unit: "tsp", PurchaseLikelihood: 0.29},
			}},
		}

		list := Aggregate(recipes, nil)

		if len(list.GroceryItems) != 1 || list.GroceryItems[0].IngredientName != "butter" {
			t.Errorf("Expected butter at 0.3 on the grocery list, got %+v", list.GroceryItems)
		}
		if len(list.PantryStaples) != 1 || list.PantryStaples[0].IngredientName != "pepper" {
			t.Errorf("Expected pepper below the threshold on the pantry list, got %+v", list.PantryStaples)
		}
	})

	t.Run("GrocerySortedByLikelihoodDesc", func(t *testing.T) {
		recipes := []recipe.Recipe{
			{ID: "r1", Name: "A", Ingredients: []recipe.Ingredient{
				{Name: "chicken", Quantity: "1", Unit: "pound", PurchaseLikelihood: 0.6},
				{Name: "saffron", Quantity: "1", Unit: "gram", PurchaseLikelihood: 0.95},
				{Name: "rice", Quantity: "2", Unit: "cups", PurchaseLikelihood: 0.4},
			}},
		}

		list := Aggregate(recipes, nil)

		got := make([]string, len(list.GroceryItems))
		for i, item := range list.GroceryItems {
			got[i] = item.IngredientName
		}
		want := []string{"saffron", "chicken", "rice"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Expected order %v, got %v", want, got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		list := Aggregate(nil, nil)
		if len(list.GroceryItems) != 0 || len(list.PantryStaples) != 0 {
			t.Errorf("Expected empty list, got %+v", list)
		}
	})
}
