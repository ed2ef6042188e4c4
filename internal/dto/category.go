package dto

import "github.com/SscSPs/dual_ledger/internal/core/domain"

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name     string              `json:"name" binding:"required,max=100"`
	Kind     domain.CategoryKind `json:"kind" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	ParentID *string             `json:"parentID" binding:"omitempty,uuid"`
}

// UpdateCategoryRequest renames a category.
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// MoveCategoryRequest re-parents a category. A null parent makes it a root.
type MoveCategoryRequest struct {
	ParentID *string `json:"parentID" binding:"omitempty,uuid"`
}

// ListCategoriesParams filters categories by kind.
type ListCategoriesParams struct {
	Kind *domain.CategoryKind `form:"kind" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
}
