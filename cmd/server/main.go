package main

import (
	"context"
	"log"

	"pantry-planner/internal/app"
	"pantry-planner/internal/config"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/server"
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

	srv := server.New(
		cfg,
		application.Inventory,
		application.Recipes,
		application.RecipeSvc,
		application.PlannerSvc,
		application.ShoppingSvc,
		application.Clipper,
		application.Metrics,
		geminiClient,
	)

	log.Printf("Starting API server on %s", cfg.APIAddr)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
