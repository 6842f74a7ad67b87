package inventory

import (
	"context"
)

// ReservedTotals maps inventory item IDs to the summed quantity of reserved
// claims against them.
type ReservedTotals map[string]float64

// ClaimSummer supplies the reserved-claim totals the availability calculation
// subtracts from physical inventory.
type ClaimSummer interface {
	ReservedTotals(ctx context.Context) (map[string]float64, error)
}

// AvailableItems returns a snapshot of items with each quantity replaced by
// the amount still unreserved: physical quantity minus the summed reserved
// claims, floored at zero. Items with no claims pass through unchanged.
//
// The result is a value, not a live view; recompute after any claim or
// inventory mutation.
func AvailableItems(items []InventoryItem, reserved ReservedTotals) []InventoryItem {
	snapshot := make([]InventoryItem, len(items))
	for i, item := range items {
		available := item.Quantity - reserved[item.ID]
		if available < 0 {
			available = 0
		}
		item.Quantity = available
		snapshot[i] = item
	}
	return snapshot
}

// Service bundles inventory reads with the claim ledger for availability math.
type Service struct {
	Stores *StoreRepository
	Items  *ItemRepository
	Claims ClaimSummer
}

// NewService creates an inventory Service.
func NewService(stores *StoreRepository, items *ItemRepository, claims ClaimSummer) *Service {
	return &Service{Stores: stores, Items: items, Claims: claims}
}

// CalculateAvailable computes the current availability snapshot across all
// non-deleted items.
func (s *Service) CalculateAvailable(ctx context.Context) ([]InventoryItem, error) {
	items, err := s.Items.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []InventoryItem{}, nil
	}
	totals, err := s.Claims.ReservedTotals(ctx)
	if err != nil {
		return nil, err
	}
	return AvailableItems(items, totals), nil
}
