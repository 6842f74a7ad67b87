package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pantry-planner/internal/claim"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"
)

// maxGenerationWaves bounds how many times GeneratePitches re-asks the LLM
// when earlier waves produced pitches the validator rejected.
const maxGenerationWaves = 3

// Service coordinates pitch generation and flesh-out across the planner
// repositories, the inventory snapshot, and the LLM.
type Service struct {
	repo         *Repository
	recipes      *recipe.Repository
	recipeSvc    *recipe.Service
	inventorySvc *inventory.Service
	gen          llm.TextGenerator

	// Free-text household and pantry descriptions fed into prompts.
	HouseholdContext string
	PantryStaples    string
}

// NewService creates a planner Service.
func NewService(
	repo *Repository,
	recipes *recipe.Repository,
	recipeSvc *recipe.Service,
	inventorySvc *inventory.Service,
	gen llm.TextGenerator,
) *Service {
	return &Service{
		repo:         repo,
		recipes:      recipes,
		recipeSvc:    recipeSvc,
		inventorySvc: inventorySvc,
		gen:          gen,
	}
}

type generatedPitch struct {
	Name                 string            `json:"name"`
	Blurb                string            `json:"blurb"`
	WhyMakeThis          string            `json:"why_make_this"`
	InventoryIngredients []PitchIngredient `json:"inventory_ingredients"`
	ActiveTimeMinutes    int               `json:"active_time_minutes"`
}

type pitchBatch struct {
	Pitches []generatedPitch `json:"pitches"`
}

// GeneratePitches fills a session's pitch deficit in waves: compute the
// delta, ask the generator for that many candidates spread across the
// session's criteria, persist them, and repeat while invalid candidates keep
// the deficit open. Returns every pitch created.
func (s *Service) GeneratePitches(ctx context.Context, sessionID string) ([]Pitch, []shared.AgentMeta, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, fmt.Errorf("planning session %s: %w", sessionID, shared.ErrNotFound)
	}

	var created []Pitch
	var metas []shared.AgentMeta

	for wave := 0; wave < maxGenerationWaves; wave++ {
		delta, err := s.PitchGenerationDelta(ctx, sessionID)
		if err != nil {
			return created, metas, err
		}
		if delta == 0 {
			break
		}

		criteria, err := s.repo.ListCriteriaBySession(ctx, sessionID)
		if err != nil {
			return created, metas, err
		}

		stores, err := s.inventorySvc.Stores.List(ctx)
		if err != nil {
			return created, metas, err
		}
		available, err := s.inventorySvc.CalculateAvailable(ctx)
		if err != nil {
			return created, metas, err
		}
		inventoryText := inventory.FormatAvailable(stores, available)
		storesText := inventory.FormatStores(stores)

		// Spread the deficit across criteria, earlier ones taking the
		// remainder.
		per := delta / len(criteria)
		extra := delta % len(criteria)
		for i, criterion := range criteria {
			n := per
			if i < extra {
				n++
			}
			if n == 0 {
				continue
			}
			pitches, meta, err := s.generateForCriterion(ctx, criterion, n, inventoryText, storesText)
			metas = append(metas, meta)
			if err != nil {
				return created, metas, err
			}
			created = append(created, pitches...)
		}
	}

	return created, metas, nil
}

func (s *Service) generateForCriterion(ctx context.Context, criterion MealCriterion, n int, inventoryText, storesText string) ([]Pitch, shared.AgentMeta, error) {
	prompt := fmt.Sprintf(`
You are a creative home cook pitching meal ideas. Generate exactly %d recipe pitches for the planning goal below, built primarily from the available inventory.

Planning goal: %s

Available inventory (already reserved amounts excluded):
%s

Pantry staples assumed on hand:
%s

Grocery stores:
%s

Household context:
%s

Return the result strictly as a JSON object with this structure:
{
  "pitches": [
    {
      "name": "Dish Name",
      "blurb": "One-sentence hook",
      "why_make_this": "Why it fits the goal and the inventory",
      "inventory_ingredients": [{"name": "carrots", "quantity": 1.5, "unit": "pounds"}],
      "active_time_minutes": 30
    }
  ]
}

Rules:
- inventory_ingredients must only list items from the available inventory, with the exact unit shown there and a quantity no greater than what is available.
- Ensure the output is valid JSON. Do not include any other text in your response.
- Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.
`, n, criterion.Description, inventoryText, orNone(s.PantryStaples), storesText, orNone(s.HouseholdContext))

	start := time.Now()
	resp, err := s.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to generate pitches: %w", err)
	}
	meta := shared.AgentMeta{AgentName: "pitch-generator", Usage: resp.Usage, Latency: time.Since(start)}

	var batch pitchBatch
	if err := json.Unmarshal([]byte(resp.Content), &batch); err != nil {
		return nil, meta, fmt.Errorf("failed to parse pitch JSON: %w. Response: %s", err, resp.Content)
	}

	var pitches []Pitch
	for _, g := range batch.Pitches {
		p := Pitch{
			CriterionID:          criterion.ID,
			Name:                 g.Name,
			Blurb:                g.Blurb,
			WhyMakeThis:          g.WhyMakeThis,
			InventoryIngredients: g.InventoryIngredients,
			ActiveTimeMinutes:    g.ActiveTimeMinutes,
		}
		if err := s.repo.CreatePitch(ctx, &p); err != nil {
			log.Printf("Failed to save pitch '%s': %v", g.Name, err)
			continue
		}
		pitches = append(pitches, p)
	}
	return pitches, meta, nil
}

type fleshedRecipe struct {
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	Ingredients       []recipe.Ingredient `json:"ingredients"`
	Instructions      []string            `json:"instructions"`
	ActiveTimeMinutes int                 `json:"active_time_minutes"`
	TotalTimeMinutes  int                 `json:"total_time_minutes"`
	Servings          int                 `json:"servings"`
	Notes             string              `json:"notes,omitempty"`
}

// FleshOut expands a pitch into a full recipe via the LLM and persists it
// atomically together with its inventory claims.
func (s *Service) FleshOut(ctx context.Context, pitchID string) (*recipe.Recipe, []claim.Claim, shared.AgentMeta, error) {
	pitch, err := s.repo.GetPitch(ctx, pitchID)
	if err != nil {
		return nil, nil, shared.AgentMeta{}, err
	}
	if pitch == nil {
		return nil, nil, shared.AgentMeta{}, fmt.Errorf("pitch %s: %w", pitchID, shared.ErrNotFound)
	}
	criterion, err := s.repo.GetCriterion(ctx, pitch.CriterionID)
	if err != nil {
		return nil, nil, shared.AgentMeta{}, err
	}
	if criterion == nil {
		return nil, nil, shared.AgentMeta{}, fmt.Errorf("meal criterion %s: %w", pitch.CriterionID, shared.ErrNotFound)
	}

	pitchJSON, err := json.Marshal(pitch)
	if err != nil {
		return nil, nil, shared.AgentMeta{}, fmt.Errorf("failed to marshal pitch: %w", err)
	}

	prompt := fmt.Sprintf(`
You are an expert recipe writer. Expand the pitched meal below into a complete recipe.

Pitch:
%s

Household context:
%s

Return the result strictly as a JSON object with this structure:
{
  "name": "Dish Name",
  "description": "Short description",
  "ingredients": [
    {"name": "carrots", "quantity": "1.5", "unit": "pounds", "preparation": "diced", "notes": "", "purchase_likelihood": 0.1}
  ],
  "instructions": ["Step 1", "Step 2"],
  "active_time_minutes": 30,
  "total_time_minutes": 60,
  "servings": 4,
  "notes": ""
}

Rules:
- quantity is a string as it would appear in a cookbook ("1.5", "2", "to taste").
- purchase_likelihood is a number between 0 and 1: the probability the household needs to BUY this ingredient rather than already having it (pantry staples like salt score near 0).
- Ensure the output is valid JSON. Do not include any other text in your response.
- Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.
`, string(pitchJSON), orNone(s.HouseholdContext))

	start := time.Now()
	resp, err := s.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, nil, shared.AgentMeta{}, fmt.Errorf("failed to flesh out pitch: %w", err)
	}
	meta := shared.AgentMeta{AgentName: "recipe-writer", Usage: resp.Usage, Latency: time.Since(start)}

	var fleshed fleshedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &fleshed); err != nil {
		return nil, nil, meta, fmt.Errorf("failed to parse recipe JSON: %w. Response: %s", err, resp.Content)
	}

	rec, claims, err := s.recipeSvc.CreateWithClaims(ctx, recipe.NewRecipe{
		SessionID:         criterion.SessionID,
		CriterionID:       criterion.ID,
		Name:              fleshed.Name,
		Description:       fleshed.Description,
		Ingredients:       fleshed.Ingredients,
		Instructions:      fleshed.Instructions,
		ActiveTimeMinutes: fleshed.ActiveTimeMinutes,
		TotalTimeMinutes:  fleshed.TotalTimeMinutes,
		Servings:          fleshed.Servings,
		Notes:             fleshed.Notes,
	})
	if err != nil {
		return nil, nil, meta, err
	}
	return rec, claims, meta, nil
}

// Repo exposes the planner repository for session and criterion CRUD.
func (s *Service) Repo() *Repository {
	return s.repo
}

// RejectPitch marks a pitch rejected so the next generation wave replaces it.
func (s *Service) RejectPitch(ctx context.Context, pitchID string) error {
	return s.repo.RejectPitch(ctx, pitchID)
}

func orNone(s string) string {
	if s == "" {
		return "(none provided)"
	}
	return s
}
