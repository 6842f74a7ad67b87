package app

import (
	"context"
	"fmt"

	"pantry-planner/internal/claim"
	"pantry-planner/internal/clipper"
	"pantry-planner/internal/config"
	"pantry-planner/internal/database"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shopping"
)

// App wires the application's services over one database connection.
type App struct {
	Cfg     *config.Config
	DB      *database.DB
	TextGen llm.TextGenerator

	Stores  *inventory.StoreRepository
	Items   *inventory.ItemRepository
	Claims  *claim.Repository
	Recipes *recipe.Repository
	Planner *planner.Repository

	Inventory   *inventory.Service
	RecipeSvc   *recipe.Service
	PlannerSvc  *planner.Service
	ShoppingSvc *shopping.Service
	Clipper     *clipper.Clipper
	Metrics     *metrics.Store
}

// New opens the database, runs migrations, seeds the default store, and wires
// every service.
func New(ctx context.Context, cfg *config.Config, textGen llm.TextGenerator) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	stores := inventory.NewStoreRepository(db.SQL)
	items := inventory.NewItemRepository(db.SQL)
	claims := claim.NewRepository(db.SQL)
	recipes := recipe.NewRepository(db.SQL)
	plannerRepo := planner.NewRepository(db.SQL)

	inventorySvc := inventory.NewService(stores, items, claims)
	recipeSvc := recipe.NewService(db.SQL, recipes, claims, items)
	plannerSvc := planner.NewService(plannerRepo, recipes, recipeSvc, inventorySvc, textGen)
	plannerSvc.HouseholdContext = cfg.HouseholdContext
	plannerSvc.PantryStaples = cfg.PantryStaples

	if _, err := stores.EnsureDefault(ctx, cfg.DefaultStoreName); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed default store: %w", err)
	}

	return &App{
		Cfg:         cfg,
		DB:          db,
		TextGen:     textGen,
		Stores:      stores,
		Items:       items,
		Claims:      claims,
		Recipes:     recipes,
		Planner:     plannerRepo,
		Inventory:   inventorySvc,
		RecipeSvc:   recipeSvc,
		PlannerSvc:  plannerSvc,
		ShoppingSvc: shopping.NewService(recipes, claims),
		Clipper:     clipper.NewClipper(textGen, recipeSvc),
		Metrics:     metrics.NewStore(db.SQL),
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.DB.Close()
}
