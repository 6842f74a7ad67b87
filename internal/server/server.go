package server

import (
	"errors"
	"log"
	"net/http"

	"pantry-planner/internal/clipper"
	"pantry-planner/internal/config"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"
	"pantry-planner/internal/shopping"

	"github.com/gin-gonic/gin"
)

// Server exposes the planner over HTTP.
type Server struct {
	cfg       *config.Config
	inventory *inventory.Service
	recipes   *recipe.Repository
	recipeSvc *recipe.Service
	planner   *planner.Service
	shopping  *shopping.Service
	clipper   *clipper.Clipper
	metrics   *metrics.Store
	gen       llm.TextGenerator
}

// New creates a Server with its dependencies.
func New(
	cfg *config.Config,
	inventorySvc *inventory.Service,
	recipes *recipe.Repository,
	recipeSvc *recipe.Service,
	plannerSvc *planner.Service,
	shoppingSvc *shopping.Service,
	clip *clipper.Clipper,
	metricsStore *metrics.Store,
	gen llm.TextGenerator,
) *Server {
	return &Server{
		cfg:       cfg,
		inventory: inventorySvc,
		recipes:   recipes,
		recipeSvc: recipeSvc,
		planner:   plannerSvc,
		shopping:  shoppingSvc,
		clipper:   clip,
		metrics:   metricsStore,
		gen:       gen,
	}
}

// Router builds the gin engine. Everything except /health sits behind auth
// when an API secret is configured.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.handleHealth)

	api := r.Group("/api/v1")
	if s.cfg.APIAuthSecret != "" {
		api.Use(AuthMiddleware(s.cfg.APIAuthSecret))
	}

	api.GET("/stores", s.handleListStores)
	api.POST("/stores", s.handleCreateStore)
	api.DELETE("/stores/:id", s.handleDeleteStore)

	api.GET("/inventory", s.handleListInventory)
	api.POST("/inventory", s.handleAddInventory)
	api.POST("/inventory/extract", s.handleExtractInventory)
	api.DELETE("/inventory/:id", s.handleDeleteInventory)
	api.GET("/availability", s.handleAvailability)

	api.POST("/sessions", s.handleCreateSession)
	api.GET("/sessions", s.handleListSessions)
	api.GET("/sessions/:id", s.handleGetSession)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
	api.POST("/sessions/:id/criteria", s.handleCreateCriterion)
	api.GET("/sessions/:id/criteria", s.handleListCriteria)
	api.GET("/sessions/:id/pitches", s.handleListPitches)
	api.POST("/sessions/:id/pitches/generate", s.handleGeneratePitches)
	api.GET("/sessions/:id/recipes", s.handleListSessionRecipes)
	api.GET("/sessions/:id/shopping-list", s.handleShoppingList)

	api.POST("/pitches/:id/reject", s.handleRejectPitch)
	api.POST("/pitches/:id/flesh-out", s.handleFleshOutPitch)

	api.GET("/recipes/:id", s.handleGetRecipe)
	api.POST("/recipes/:id/cook", s.handleCookRecipe)
	api.POST("/recipes/:id/abandon", s.handleAbandonRecipe)

	api.POST("/clip", s.handleClip)

	return r
}

// Run serves the API on the configured address.
func (s *Server) Run() error {
	return s.Router().Run(s.cfg.APIAddr)
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case shared.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) recordMeta(c *gin.Context, metas ...shared.AgentMeta) {
	for _, meta := range metas {
		if err := s.metrics.RecordMeta(c.Request.Context(), meta); err != nil {
			log.Printf("Failed to record metrics for %s: %v", meta.AgentName, err)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	health, err := s.metrics.Health(c.Request.Context(), s.cfg.DatabasePath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"sys":    health,
	})
}
