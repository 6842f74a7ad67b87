package claim

import (
	"testing"

	"pantry-planner/internal/shared"
)

func TestNew(t *testing.T) {
	t.Run("ValidClaim", func(t *testing.T) {
		c, err := New("recipe-1", "item-1", "carrots", 1.5, "pounds")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if c.State != StateReserved {
			t.Errorf("Expected new claim to be reserved, got %s", c.State)
		}
		if c.Quantity != 1.5 {
			t.Errorf("Expected quantity 1.5, got %v", c.Quantity)
		}
		if c.ID == "" {
			t.Error("Expected claim to be assigned an ID")
		}
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		_, err := New("recipe-1", "item-1", "carrots", 0, "pounds")
		if err == nil {
			t.Fatal("Expected an error for zero quantity, got nil")
		}
		if !shared.IsValidation(err) {
			t.Errorf("Expected a ValidationError, got %T", err)
		}
	})

	t.Run("NegativeQuantity", func(t *testing.T) {
		_, err := New("recipe-1", "item-1", "carrots", -1, "pounds")
		if err == nil {
			t.Fatal("Expected an error for negative quantity, got nil")
		}
	})
}
