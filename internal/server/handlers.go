package server

import (
	"net/http"

	"pantry-planner/internal/inventory"
	"pantry-planner/internal/recipe"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListStores(c *gin.Context) {
	stores, err := s.inventory.Stores.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

func (s *Server) handleCreateStore(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	store, err := s.inventory.Stores.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

func (s *Server) handleDeleteStore(c *gin.Context) {
	if err := s.inventory.Stores.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListInventory(c *gin.Context) {
	items, err := s.inventory.Items.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleAddInventory(c *gin.Context) {
	var req struct {
		StoreID        string  `json:"store_id" binding:"required"`
		IngredientName string  `json:"ingredient_name" binding:"required"`
		Quantity       float64 `json:"quantity"`
		Unit           string  `json:"unit" binding:"required"`
		Priority       string  `json:"priority"`
		PortionSize    string  `json:"portion_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item := &inventory.InventoryItem{
		StoreID:        req.StoreID,
		IngredientName: req.IngredientName,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Priority:       inventory.Priority(req.Priority),
		PortionSize:    req.PortionSize,
	}
	if err := s.inventory.Items.Create(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleExtractInventory(c *gin.Context) {
	var req struct {
		StoreID      string `json:"store_id"`
		Text         string `json:"text" binding:"required"`
		Instructions string `json:"instructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	storeID := req.StoreID
	if storeID == "" {
		store, err := s.inventory.Stores.EnsureDefault(c.Request.Context(), s.cfg.DefaultStoreName)
		if err != nil {
			respondError(c, err)
			return
		}
		storeID = store.ID
	}

	items, meta, err := s.inventory.ExtractAndAdd(c.Request.Context(), s.gen, storeID, req.Text, req.Instructions)
	s.recordMeta(c, meta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": items})
}

func (s *Server) handleDeleteInventory(c *gin.Context) {
	if err := s.inventory.Items.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAvailability(c *gin.Context) {
	items, err := s.inventory.CalculateAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := s.planner.Repo().CreateSession(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.planner.Repo().ListSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) handleGetSession(c *gin.Context) {
	session, err := s.planner.Repo().GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.planner.Repo().DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateCriterion(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required"`
		Slots       int    `json:"slots" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	criterion, err := s.planner.Repo().CreateCriterion(c.Request.Context(), c.Param("id"), req.Description, req.Slots)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, criterion)
}

func (s *Server) handleListCriteria(c *gin.Context) {
	criteria, err := s.planner.Repo().ListCriteriaBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"criteria": criteria})
}

func (s *Server) handleListPitches(c *gin.Context) {
	includeRejected := c.Query("include_rejected") == "true"
	pitches, err := s.planner.Repo().ListPitchesBySession(c.Request.Context(), c.Param("id"), includeRejected)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pitches": pitches})
}

func (s *Server) handleGeneratePitches(c *gin.Context) {
	pitches, metas, err := s.planner.GeneratePitches(c.Request.Context(), c.Param("id"))
	s.recordMeta(c, metas...)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pitches": pitches})
}

func (s *Server) handleRejectPitch(c *gin.Context) {
	if err := s.planner.RejectPitch(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFleshOutPitch(c *gin.Context) {
	rec, claims, meta, err := s.planner.FleshOut(c.Request.Context(), c.Param("id"))
	s.recordMeta(c, meta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": rec, "claims": claims})
}

func (s *Server) handleListSessionRecipes(c *gin.Context) {
	state := recipeStateFromQuery(c)
	recipes, err := s.recipes.ListBySessionAndState(c.Request.Context(), c.Param("id"), state)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (s *Server) handleShoppingList(c *gin.Context) {
	list, err := s.shopping.Compute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetRecipe(c *gin.Context) {
	rec, err := s.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleCookRecipe(c *gin.Context) {
	result, err := s.recipeSvc.Cook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAbandonRecipe(c *gin.Context) {
	result, err := s.recipeSvc.Abandon(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleClip(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rec, claims, meta, err := s.clipper.ClipURL(c.Request.Context(), req.URL)
	s.recordMeta(c, meta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": rec, "claims": claims})
}

func recipeStateFromQuery(c *gin.Context) recipe.State {
	if state := c.Query("state"); state != "" {
		return recipe.State(state)
	}
	return recipe.StatePlanned
}
