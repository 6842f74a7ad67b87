package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pantry-planner/internal/llm"
	"pantry-planner/internal/shared"
)

// ExtractedIngredient is one structured item parsed out of free text.
type ExtractedIngredient struct {
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Priority    string  `json:"priority"`
	PortionSize string  `json:"portion_size,omitempty"`
}

// ExtractionResult is the structured output of a free-text intake call.
type ExtractionResult struct {
	Ingredients  []ExtractedIngredient `json:"ingredients"`
	ParsingNotes string                `json:"parsing_notes,omitempty"`
}

// ExtractIngredients turns free text like "2 lbs carrots and a dozen eggs
// from Costco" into structured inventory entries via the LLM.
func ExtractIngredients(ctx context.Context, gen llm.TextGenerator, freeText, instructions string) (*ExtractionResult, shared.AgentMeta, error) {
	extra := ""
	if instructions != "" {
		extra = fmt.Sprintf("\nAdditional instructions from the user: %s\n", instructions)
	}

	prompt := fmt.Sprintf(`
You are a grocery inventory assistant. Extract every ingredient mentioned in the text below into structured entries.
%s
Return the output as a JSON object with the following structure:
{
	"ingredients": [
		{"name": "carrots", "quantity": 2, "unit": "pounds", "priority": "medium", "portion_size": ""},
		...
	],
	"parsing_notes": "anything ambiguous you had to guess"
}

Rules:
- quantity must be a number; convert words ("a dozen" -> 12).
- unit is the unit as written ("pounds", "cups", "whole"); use "whole" for countable items without a unit.
- priority is one of: low, medium, high, urgent. Default to "medium".

Ensure the output is valid JSON. Do not include any other text in your response.
Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

Text:
%s
`, extra, freeText)

	start := time.Now()
	resp, err := gen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to get LLM response: %w", err)
	}
	meta := shared.AgentMeta{AgentName: "ingredient-extractor", Usage: resp.Usage, Latency: time.Since(start)}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		return nil, meta, fmt.Errorf("failed to unmarshal LLM response into ExtractionResult: %w. LLM Response: %s", err, resp.Content)
	}

	return &result, meta, nil
}

// ExtractAndAdd runs free-text extraction and persists every parsed
// ingredient as an inventory item in the given store.
func (s *Service) ExtractAndAdd(ctx context.Context, gen llm.TextGenerator, storeID, freeText, instructions string) ([]InventoryItem, shared.AgentMeta, error) {
	result, meta, err := ExtractIngredients(ctx, gen, freeText, instructions)
	if err != nil {
		return nil, meta, err
	}

	var items []InventoryItem
	for _, ing := range result.Ingredients {
		item := InventoryItem{
			StoreID:        storeID,
			IngredientName: ing.Name,
			Quantity:       ing.Quantity,
			Unit:           ing.Unit,
			Priority:       Priority(ing.Priority),
			PortionSize:    ing.PortionSize,
		}
		if !ValidPriority(item.Priority) {
			item.Priority = PriorityMedium
		}
		if err := s.Items.Create(ctx, &item); err != nil {
			return items, meta, fmt.Errorf("failed to save extracted ingredient %q: %w", ing.Name, err)
		}
		items = append(items, item)
	}
	return items, meta, nil
}
