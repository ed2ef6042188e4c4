package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
)

func TestBuildCategoryTree(t *testing.T) {
	food := domain.Category{CategoryID: "food", Name: "Food"}
	groceries := domain.Category{CategoryID: "groceries", ParentID: stringPtr("food"), Name: "Groceries"}
	snacks := domain.Category{CategoryID: "snacks", ParentID: stringPtr("groceries"), Name: "Snacks"}
	orphan := domain.Category{CategoryID: "orphan", ParentID: stringPtr("deleted"), Name: "Orphan"}

	tree := domain.BuildCategoryTree([]domain.Category{snacks, food, orphan, groceries})

	require.Len(t, tree, 2)
	assert.Equal(t, "food", tree[0].CategoryID)
	assert.Equal(t, "orphan", tree[1].CategoryID, "categories with a missing parent become roots")
	assert.Empty(t, tree[1].Children)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "snacks", tree[0].Children[0].Children[0].CategoryID)
}

func TestBuildCategoryTree_CycleTerminates(t *testing.T) {
	a := domain.Category{CategoryID: "a", ParentID: stringPtr("b")}
	b := domain.Category{CategoryID: "b", ParentID: stringPtr("a")}

	assert.Empty(t, domain.BuildCategoryTree([]domain.Category{a, b}))
}

func TestCategory_Usable(t *testing.T) {
	c := domain.Category{IsActive: true}
	assert.True(t, c.Usable())
	c.IsDeleted = true
	assert.False(t, c.Usable())
}
