package recipe

import (
	"strconv"
	"strings"
	"time"
)

// State of a recipe. planned is initial; cooked and abandoned are terminal.
type State string

const (
	StatePlanned   State = "planned"
	StateCooked    State = "cooked"
	StateAbandoned State = "abandoned"
)

// Terminal reports whether s is a terminal lifecycle state.
func (s State) Terminal() bool {
	return s == StateCooked || s == StateAbandoned
}

// Ingredient is one entry of a recipe's embedded ingredient list. Quantity is
// kept as the display string the generator produced ("1.5", "to taste");
// claims parse it when a numeric amount is needed.
type Ingredient struct {
	Name               string  `json:"name"`
	Quantity           string  `json:"quantity"`
	Unit               string  `json:"unit"`
	Preparation        string  `json:"preparation,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	PurchaseLikelihood float64 `json:"purchase_likelihood"`
}

// Recipe is a fleshed-out meal. The ingredient list is owned by the recipe as
// an ordered value, not normalized into rows.
type Recipe struct {
	ID                string       `json:"id"`
	SessionID         string       `json:"session_id,omitempty"`
	CriterionID       string       `json:"criterion_id,omitempty"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Ingredients       []Ingredient `json:"ingredients"`
	Instructions      []string     `json:"instructions"`
	ActiveTimeMinutes int          `json:"active_time_minutes"`
	TotalTimeMinutes  int          `json:"total_time_minutes"`
	Servings          int          `json:"servings"`
	Notes             string       `json:"notes,omitempty"`
	State             State        `json:"state"`
	CreatedAt         time.Time    `json:"created_at"`
	PlannedAt         time.Time    `json:"planned_at"`
	CookedAt          *time.Time   `json:"cooked_at,omitempty"`
}

// ParseQuantity turns a recipe ingredient quantity string into a number.
// Non-numeric quantities like "to taste" default to 1.0. Never errors.
func ParseQuantity(s string) float64 {
	s = strings.TrimSpace(s)
	if q, err := strconv.ParseFloat(s, 64); err == nil {
		return q
	}
	// "2 large" style strings: take a leading number if there is one.
	if fields := strings.Fields(s); len(fields) > 0 {
		if q, err := strconv.ParseFloat(fields[0], 64); err == nil {
			return q
		}
	}
	return 1.0
}
