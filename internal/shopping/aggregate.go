package shopping

import (
	"sort"
	"strings"

	"pantry-planner/internal/recipe"
)

// GroceryThreshold splits list items: ingredients at or above this average
// purchase likelihood go on the grocery list, the rest are assumed pantry
// staples.
const GroceryThreshold = 0.3

// ListItem is one aggregated ingredient across all planned recipes.
type ListItem struct {
	IngredientName     string   `json:"ingredient_name"`
	TotalQuantity      string   `json:"total_quantity"`
	PurchaseLikelihood float64  `json:"purchase_likelihood"`
	UsedInRecipes      []string `json:"used_in_recipes"`
}

// List is the shopping list for a session, split into what to buy and what
// the pantry is expected to cover.
type List struct {
	GroceryItems  []ListItem `json:"grocery_items"`
	PantryStaples []ListItem `json:"pantry_staples"`
}

// ClaimedKey identifies an ingredient covered by an inventory claim. Claimed
// ingredients never appear on the shopping list regardless of claim state.
func ClaimedKey(recipeID, ingredientName string) string {
	return recipeID + "\x00" + strings.ToLower(ingredientName)
}

type aggregate struct {
	name       string
	quantities []string
	likelihood float64
	count      int
	recipes    map[string]bool
}

// Aggregate builds the shopping list from planned recipes, skipping every
// ingredient whose (recipe, name) pair appears in claimed. Ingredients merge
// case-insensitively by name, keeping the first-seen casing; quantities are
// concatenated rather than unit-converted; likelihoods average.
func Aggregate(recipes []recipe.Recipe, claimed map[string]bool) List {
	byName := map[string]*aggregate{}
	var order []string

	for _, rec := range recipes {
		for _, ing := range rec.Ingredients {
			if claimed[ClaimedKey(rec.ID, ing.Name)] {
				continue
			}
			key := strings.ToLower(ing.Name)
			agg, ok := byName[key]
			if !ok {
				agg = &aggregate{name: ing.Name, recipes: map[string]bool{}}
				byName[key] = agg
				order = append(order, key)
			}
			qty := strings.TrimSpace(ing.Quantity)
			if ing.Unit != "" {
				qty = strings.TrimSpace(qty + " " + ing.Unit)
			}
			if qty != "" {
				agg.quantities = append(agg.quantities, qty)
			}
			agg.likelihood += ing.PurchaseLikelihood
			agg.count++
			agg.recipes[rec.Name] = true
		}
	}

	var list List
	for _, key := range order {
		agg := byName[key]
		item := ListItem{
			IngredientName:     agg.name,
			TotalQuantity:      strings.Join(agg.quantities, " + "),
			PurchaseLikelihood: agg.likelihood / float64(agg.count),
			UsedInRecipes:      sortedKeys(agg.recipes),
		}
		if item.PurchaseLikelihood >= GroceryThreshold {
			list.GroceryItems = append(list.GroceryItems, item)
		} else {
			list.PantryStaples = append(list.PantryStaples, item)
		}
	}

	// Most-likely-needed purchases first; staples alphabetical.
	sort.SliceStable(list.GroceryItems, func(i, j int) bool {
		return list.GroceryItems[i].PurchaseLikelihood > list.GroceryItems[j].PurchaseLikelihood
	})
	sort.Slice(list.PantryStaples, func(i, j int) bool {
		return strings.ToLower(list.PantryStaples[i].IngredientName) < strings.ToLower(list.PantryStaples[j].IngredientName)
	})
	return list
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
