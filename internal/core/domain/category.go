package domain

// CategoryKind tells which transaction type a category may classify.
type CategoryKind string

const (
	CategoryIncome   CategoryKind = "INCOME"
	CategoryExpense  CategoryKind = "EXPENSE"
	CategoryTransfer CategoryKind = "TRANSFER"
)

// Valid reports whether k is a known category kind.
func (k CategoryKind) Valid() bool {
	switch k {
	case CategoryIncome, CategoryExpense, CategoryTransfer:
		return true
	}
	return false
}

// Matches reports whether a category of this kind may be used on a transaction of type t.
func (k CategoryKind) Matches(t TransactionType) bool {
	switch t {
	case Income:
		return k == CategoryIncome
	case Outgoing:
		return k == CategoryExpense
	case Transfer:
		return k == CategoryTransfer
	}
	return false
}

// SystemTransferCategoryName is the name of the seeded category applied to transfers.
const SystemTransferCategoryName = "Transfer"

// Category classifies operational transactions. Categories form a forest per kind.
type Category struct {
	CategoryID string       `json:"categoryID"`
	ParentID   *string      `json:"parentID,omitempty"`
	Name       string       `json:"name"`
	Kind       CategoryKind `json:"kind"`
	IsSystem   bool         `json:"isSystem"`
	IsActive   bool         `json:"isActive"`
	IsDeleted  bool         `json:"isDeleted"`
	AuditFields
}

// Usable reports whether new transactions may be classified under the category.
func (c *Category) Usable() bool {
	return c.IsActive && !c.IsDeleted
}

// CategoryNode is a category with its descendants.
type CategoryNode struct {
	Category
	Children []CategoryNode `json:"children"`
}

// BuildCategoryTree nests categories under their parents. Categories whose
// parent is not in the input become roots. Siblings keep input order.
func BuildCategoryTree(categories []Category) []CategoryNode {
	present := make(map[string]bool, len(categories))
	for _, c := range categories {
		present[c.CategoryID] = true
	}
	children := make(map[string][]Category)
	var roots []Category
	for _, c := range categories {
		if c.ParentID != nil && present[*c.ParentID] {
			children[*c.ParentID] = append(children[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	var build func(c Category, depth int) CategoryNode
	build = func(c Category, depth int) CategoryNode {
		node := CategoryNode{Category: c, Children: make([]CategoryNode, 0)}
		if depth > len(categories) {
			return node
		}
		for _, child := range children[c.CategoryID] {
			node.Children = append(node.Children, build(child, depth+1))
		}
		return node
	}

	out := make([]CategoryNode, 0, len(roots))
	for _, c := range roots {
		out = append(out, build(c, 0))
	}
	return out
}
