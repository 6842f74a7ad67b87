package inventory

import (
	"context"
	"testing"

	"pantry-planner/internal/llm"
)

type mockTextGenerator struct {
	response string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	return llm.ContentResponse{Content: m.response}, nil
}

func TestExtractIngredients(t *testing.T) {
	ctx := context.Background()

	t.Run("ParsesStructuredResponse", func(t *testing.T) {
		gen := &mockTextGenerator{response: `{
			"ingredients": [
				{"name": "carrots", "quantity": 2, "unit": "pounds", "priority": "medium"},
				{"name": "eggs", "quantity": 12, "unit": "whole", "priority": "high"}
			],
			"parsing_notes": "assumed large eggs"
		}`}

		result, meta, err := ExtractIngredients(ctx, gen, "2 lbs carrots and a dozen eggs", "")
		if err != nil {
			t.Fatalf("ExtractIngredients failed: %v", err)
		}
		if len(result.Ingredients) != 2 {
			t.Fatalf("Expected 2 ingredients, got %d", len(result.Ingredients))
		}
		if result.Ingredients[0].Name != "carrots" || result.Ingredients[0].Quantity != 2 {
			t.Errorf("Unexpected first ingredient: %+v", result.Ingredients[0])
		}
		if result.ParsingNotes != "assumed large eggs" {
			t.Errorf("Expected parsing notes, got %q", result.ParsingNotes)
		}
		if meta.AgentName != "ingredient-extractor" {
			t.Errorf("Expected agent name 'ingredient-extractor', got %q", meta.AgentName)
		}
	})

	t.Run("MalformedResponse", func(t *testing.T) {
		gen := &mockTextGenerator{response: "not json"}
		_, _, err := ExtractIngredients(ctx, gen, "whatever", "")
		if err == nil {
			t.Fatal("Expected an error for malformed LLM response, got nil")
		}
	})
}
