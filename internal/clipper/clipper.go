package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pantry-planner/internal/claim"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

// Clipper fetches a recipe page, extracts the recipe with the LLM, and saves
// it as a planned recipe with inventory claims.
type Clipper struct {
	textGen   llm.TextGenerator
	recipeSvc *recipe.Service
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator, recipeSvc *recipe.Service) *Clipper {
	return &Clipper{textGen: textGen, recipeSvc: recipeSvc}
}

type extractedRecipe struct {
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	Ingredients       []recipe.Ingredient `json:"ingredients"`
	Instructions      []string            `json:"instructions"`
	ActiveTimeMinutes int                 `json:"active_time_minutes"`
	TotalTimeMinutes  int                 `json:"total_time_minutes"`
	Servings          int                 `json:"servings"`
}

// ClipURL fetches the URL, extracts the recipe using the LLM, and persists it.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, []claim.Claim, shared.AgentMeta, error) {
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, nil, shared.AgentMeta{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "name": "Recipe Title",
  "description": "Short description",
  "ingredients": [
    {"name": "flour", "quantity": "2", "unit": "cups", "preparation": "sifted", "notes": "", "purchase_likelihood": 0.2}
  ],
  "instructions": ["Step 1 description", "Step 2 description"],
  "active_time_minutes": 30,
  "total_time_minutes": 60,
  "servings": 4
}

Rules:
- quantity is a string as it would appear in a cookbook ("1.5", "2", "to taste").
- purchase_likelihood is a number between 0 and 1: the probability a typical household needs to BUY this ingredient rather than already having it.
- Ensure the output is valid JSON. Do not include any other text in your response.
- Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

Page Content:
%s
`, content)

	start := time.Now()
	resp, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, nil, shared.AgentMeta{}, fmt.Errorf("ai extraction failed: %w", err)
	}
	meta := shared.AgentMeta{AgentName: "recipe-clipper", Usage: resp.Usage, Latency: time.Since(start)}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, nil, meta, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if extracted.Name == "" {
		return nil, nil, meta, shared.Validationf("no recipe found at %s", url)
	}

	notes := fmt.Sprintf("Imported from: %s", url)
	rec, claims, err := c.recipeSvc.CreateWithClaims(ctx, recipe.NewRecipe{
		Name:              extracted.Name,
		Description:       extracted.Description,
		Ingredients:       extracted.Ingredients,
		Instructions:      extracted.Instructions,
		ActiveTimeMinutes: extracted.ActiveTimeMinutes,
		TotalTimeMinutes:  extracted.TotalTimeMinutes,
		Servings:          extracted.Servings,
		Notes:             notes,
	})
	if err != nil {
		return nil, nil, meta, err
	}
	return rec, claims, meta, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
