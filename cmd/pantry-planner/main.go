package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"pantry-planner/internal/app"
	"pantry-planner/internal/config"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/shared"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	application, err := app.New(ctx, cfg, geminiClient)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		requireArgs(2, "add \"<free text>\"")
		store, err := application.Stores.EnsureDefault(ctx, cfg.DefaultStoreName)
		if err != nil {
			log.Fatalf("Failed to resolve default store: %v", err)
		}
		items, _, err := application.Inventory.ExtractAndAdd(ctx, geminiClient, store.ID, os.Args[2], "")
		if err != nil {
			log.Fatalf("Failed to add inventory: %v", err)
		}
		fmt.Printf("Added %d item(s).\n", len(items))

	case "availability":
		stores, err := application.Stores.List(ctx)
		if err != nil {
			log.Fatalf("Failed to list stores: %v", err)
		}
		items, err := application.Inventory.CalculateAvailable(ctx)
		if err != nil {
			log.Fatalf("Failed to calculate availability: %v", err)
		}
		fmt.Println(inventory.FormatAvailable(stores, items))

	case "generate-pitches":
		requireArgs(2, "generate-pitches <session-id>")
		pitches, metas, err := application.PlannerSvc.GeneratePitches(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Pitch generation failed: %v", err)
		}
		for _, p := range pitches {
			fmt.Printf("%s  %s: %s\n", p.ID, p.Name, p.Blurb)
		}
		var usage shared.TokenUsage
		for _, meta := range metas {
			usage = usage.Add(meta.Usage)
		}
		fmt.Printf("Used %d token(s) across %d generation call(s).\n", usage.TotalTokens, len(metas))

	case "flesh-out":
		requireArgs(2, "flesh-out <pitch-id>")
		rec, claims, _, err := application.PlannerSvc.FleshOut(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Flesh-out failed: %v", err)
		}
		fmt.Printf("Created recipe %s (%s) with %d inventory claim(s).\n", rec.Name, rec.ID, len(claims))

	case "cook":
		requireArgs(2, "cook <recipe-id>")
		result, err := application.RecipeSvc.Cook(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Cook failed: %v", err)
		}
		fmt.Printf("Recipe is now %s: %d claim(s) settled, %d inventory item(s) decremented.\n",
			result.State, result.ClaimsDeleted, result.InventoryItemsDecremented)

	case "abandon":
		requireArgs(2, "abandon <recipe-id>")
		result, err := application.RecipeSvc.Abandon(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Abandon failed: %v", err)
		}
		fmt.Printf("Recipe is now %s: %d claim(s) released.\n", result.State, result.ClaimsDeleted)

	case "shopping-list":
		requireArgs(2, "shopping-list <session-id>")
		list, err := application.ShoppingSvc.Compute(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Failed to compute shopping list: %v", err)
		}
		out, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			log.Fatalf("Failed to render shopping list: %v", err)
		}
		fmt.Println(string(out))

	case "clip":
		requireArgs(2, "clip <url>")
		rec, claims, _, err := application.Clipper.ClipURL(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Clip failed: %v", err)
		}
		fmt.Printf("Clipped %q with %d ingredient(s), %d claimed from inventory.\n",
			rec.Name, len(rec.Ingredients), len(claims))

	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := application.Metrics.Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func requireArgs(n int, usage string) {
	if len(os.Args) <= n {
		fmt.Printf("Usage: pantry-planner %s\n", usage)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: pantry-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  add                Parse free text into inventory items")
	fmt.Println("  availability       Show available inventory net of reservations")
	fmt.Println("  generate-pitches   Fill a session's pitch deficit")
	fmt.Println("  flesh-out          Turn a pitch into a full recipe with claims")
	fmt.Println("  cook               Mark a recipe cooked and consume its claims")
	fmt.Println("  abandon            Abandon a recipe and release its claims")
	fmt.Println("  shopping-list      Aggregate unclaimed ingredients for a session")
	fmt.Println("  clip               Import a recipe from a URL")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
