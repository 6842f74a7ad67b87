package planner

import (
	"time"
)

// MaxSlotsPerSession caps how many recipe slots a session's criteria may
// declare in total.
const MaxSlotsPerSession = 7

// PlanningSession is the top-level grouping for one planning intent.
// Deleting a session cascades to its criteria, which cascade to pitches.
type PlanningSession struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MealCriterion declares how many recipe slots the user wants filled for one
// kind of meal ("quick weeknight dinners", slots: 3).
type MealCriterion struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	Description string `json:"description"`
	Slots       int    `json:"slots"`
}

// PitchIngredient is an inventory requirement attached to a pitch.
type PitchIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Pitch is a lightweight, unconfirmed recipe candidate. It becomes a Recipe
// only when fleshed out.
type Pitch struct {
	ID                   string            `json:"id"`
	CriterionID          string            `json:"criterion_id"`
	Name                 string            `json:"name"`
	Blurb                string            `json:"blurb"`
	WhyMakeThis          string            `json:"why_make_this"`
	InventoryIngredients []PitchIngredient `json:"inventory_ingredients"`
	ActiveTimeMinutes    int               `json:"active_time_minutes"`
	Rejected             bool              `json:"rejected"`
	CreatedAt            time.Time         `json:"created_at"`
}
