package inventory

import (
	"fmt"
	"strings"
)

// FormatAvailable renders an availability snapshot as human-readable text,
// grouped by store name, for use as LLM prompt context.
func FormatAvailable(stores []GroceryStore, items []InventoryItem) string {
	if len(items) == 0 {
		return "No inventory available."
	}

	storeNames := make(map[string]string, len(stores))
	for _, s := range stores {
		storeNames[s.ID] = s.Name
	}

	byStore := make(map[string][]InventoryItem)
	var order []string
	for _, item := range items {
		name := storeNames[item.StoreID]
		if name == "" {
			name = "Unknown Store"
		}
		if _, seen := byStore[name]; !seen {
			order = append(order, name)
		}
		byStore[name] = append(byStore[name], item)
	}

	var sb strings.Builder
	for i, storeName := range order {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s:\n", storeName)
		for _, item := range byStore[storeName] {
			fmt.Fprintf(&sb, "- %s %s %s", trimFloat(item.Quantity), item.Unit, item.IngredientName)
			if item.Priority != "" && item.Priority != PriorityMedium {
				fmt.Fprintf(&sb, " (priority: %s)", item.Priority)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatStores renders the store list for prompt context.
func FormatStores(stores []GroceryStore) string {
	if len(stores) == 0 {
		return "No grocery stores configured."
	}
	var sb strings.Builder
	for _, s := range stores {
		fmt.Fprintf(&sb, "- %s", s.Name)
		if s.Description != "" {
			fmt.Fprintf(&sb, ": %s", s.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
