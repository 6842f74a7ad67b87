package inventory

import (
	"time"

	"pantry-planner/internal/shared"
)

// Priority tags how urgently an inventory item should be used up.
// Display ordering only, no business logic attached.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// GroceryStore groups inventory by where it was bought.
type GroceryStore struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// InventoryItem is a physical quantity of one ingredient held at home,
// attributed to the store it came from. Items are soft-deleted so historical
// claims keep a valid reference.
type InventoryItem struct {
	ID             string     `json:"id"`
	StoreID        string     `json:"store_id"`
	IngredientName string     `json:"ingredient_name"`
	Quantity       float64    `json:"quantity"`
	Unit           string     `json:"unit"`
	Priority       Priority   `json:"priority"`
	PortionSize    string     `json:"portion_size,omitempty"`
	AddedAt        time.Time  `json:"added_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// Validate checks the fields a caller controls before insert.
func (i InventoryItem) Validate() error {
	if i.IngredientName == "" {
		return shared.Validationf("inventory item requires an ingredient name")
	}
	if i.Quantity <= 0 {
		return shared.Validationf("inventory item quantity must be positive, got %v", i.Quantity)
	}
	if i.Priority != "" && !ValidPriority(i.Priority) {
		return shared.Validationf("unknown priority %q", i.Priority)
	}
	return nil
}
