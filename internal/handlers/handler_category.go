package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
	"github.com/SscSPs/dual_ledger/internal/middleware"
)

type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

// RegisterCategoryRoutes registers routes related to transaction categories.
func RegisterCategoryRoutes(rg *gin.RouterGroup, cs portssvc.CategorySvcFacade) {
	h := &categoryHandler{categoryService: cs}

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.GET("/tree", h.getCategoryTree)
		categories.GET("/:id", h.getCategory)
		categories.GET("/:id/path", h.getCategoryPath)
		categories.PATCH("/:id", h.updateCategory)
		categories.POST("/:id/move", h.moveCategory)
		categories.DELETE("/:id", h.deleteCategory)
	}
}

func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create category")
		return
	}
	logger.Info("Category created successfully", slog.String("category_id", category.CategoryID))
	c.JSON(http.StatusCreated, category)
}

func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCategoriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListCategories", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), params.Kind)
	if err != nil {
		respondError(c, logger, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *categoryHandler) getCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *categoryHandler) getCategoryTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCategoriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetCategoryTree", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	tree, err := h.categoryService.GetCategoryTree(c.Request.Context(), params.Kind)
	if err != nil {
		respondError(c, logger, err, "Failed to build category tree")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": tree})
}

// getCategoryPath returns the category's ancestors, root first, ending with the category.
func (h *categoryHandler) getCategoryPath(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	path, err := h.categoryService.GetCategoryPath(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to resolve category path")
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (h *categoryHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *categoryHandler) moveCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MoveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MoveCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	category, err := h.categoryService.MoveCategory(c.Request.Context(), c.Param("id"), req.ParentID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to move category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	categoryID := c.Param("id")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), categoryID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete category")
		return
	}
	logger.Info("Category deleted successfully", slog.String("category_id", categoryID))
	c.Status(http.StatusNoContent)
}
