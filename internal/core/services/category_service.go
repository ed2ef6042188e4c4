package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
)

const systemUserID = "system"

type categoryService struct {
	BaseService
	store portsrepo.Store
}

// NewCategoryService creates the category registry.
func NewCategoryService(store portsrepo.Store) portssvc.CategorySvcFacade {
	return &categoryService{store: store}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown category kind %q", apperrors.ErrValidation, req.Kind)
	}

	category := domain.Category{
		CategoryID:  uuid.NewString(),
		ParentID:    req.ParentID,
		Name:        name,
		Kind:        req.Kind,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(time.Now().UTC(), userID),
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.CategoryRepo.FindCategoryByName(ctx, req.Kind, name); err == nil {
			return fmt.Errorf("%w: %s category %q", apperrors.ErrDuplicate, req.Kind, name)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if category.ParentID != nil {
			if err := checkParent(ctx, repos.CategoryRepo, category, *category.ParentID); err != nil {
				return err
			}
		}
		return repos.CategoryRepo.SaveCategory(ctx, category)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("name", name))
		return nil, err
	}
	return &category, nil
}

// checkParent requires a live parent of the same kind that is not the category
// itself or one of its descendants.
func checkParent(ctx context.Context, repo portsrepo.CategoryRepositoryFacade, category domain.Category, parentID string) error {
	parent, err := repo.FindCategoryByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent category %s does not exist", apperrors.ErrValidation, parentID)
		}
		return err
	}
	if !parent.Usable() {
		return fmt.Errorf("%w: parent category %s is inactive or deleted", apperrors.ErrValidation, parentID)
	}
	if parent.Kind != category.Kind {
		return fmt.Errorf("%w: %s category cannot be nested under %s category %s",
			apperrors.ErrValidation, category.Kind, parent.Kind, parentID)
	}

	ancestors, err := ancestry(ctx, repo, parent)
	if err != nil {
		return err
	}
	for _, a := range ancestors {
		if a.CategoryID == category.CategoryID {
			return fmt.Errorf("%w: moving category %s under %s would create a cycle",
				apperrors.ErrValidation, category.CategoryID, parentID)
		}
	}
	return nil
}

// ancestry returns c followed by its ancestors up to the root.
func ancestry(ctx context.Context, repo portsrepo.CategoryRepositoryFacade, c *domain.Category) ([]domain.Category, error) {
	chain := []domain.Category{*c}
	seen := map[string]bool{c.CategoryID: true}
	for cur := c; cur.ParentID != nil; {
		if seen[*cur.ParentID] {
			return nil, fmt.Errorf("%w: category %s has a cyclic parent chain", apperrors.ErrInternal, c.CategoryID)
		}
		parent, err := repo.FindCategoryByID(ctx, *cur.ParentID)
		if err != nil {
			return nil, err
		}
		seen[parent.CategoryID] = true
		chain = append(chain, *parent)
		cur = parent
	}
	return chain, nil
}

func (s *categoryService) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.store.Repositories().CategoryRepo.FindCategoryByID(ctx, categoryID)
}

// ListCategories omits soft-deleted categories.
func (s *categoryService) ListCategories(ctx context.Context, kind *domain.CategoryKind) ([]domain.Category, error) {
	all, err := s.store.Repositories().CategoryRepo.ListCategories(ctx, kind)
	if err != nil {
		return nil, err
	}
	live := make([]domain.Category, 0, len(all))
	for _, c := range all {
		if !c.IsDeleted {
			live = append(live, c)
		}
	}
	return live, nil
}

func (s *categoryService) GetCategoryTree(ctx context.Context, kind *domain.CategoryKind) ([]domain.CategoryNode, error) {
	live, err := s.ListCategories(ctx, kind)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryTree(live), nil
}

func (s *categoryService) GetCategoryPath(ctx context.Context, categoryID string) ([]domain.Category, error) {
	repo := s.store.Repositories().CategoryRepo
	c, err := repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	chain, err := ancestry(ctx, repo, c)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}

	return s.modify(ctx, categoryID, userID, "Category renamed", func(ctx context.Context, repos portsrepo.RepositoryProvider, c *domain.Category) error {
		if existing, err := repos.CategoryRepo.FindCategoryByName(ctx, c.Kind, name); err == nil && existing.CategoryID != c.CategoryID {
			return fmt.Errorf("%w: %s category %q", apperrors.ErrDuplicate, c.Kind, name)
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		c.Name = name
		return nil
	})
}

func (s *categoryService) MoveCategory(ctx context.Context, categoryID string, parentID *string, userID string) (*domain.Category, error) {
	return s.modify(ctx, categoryID, userID, "Category moved", func(ctx context.Context, repos portsrepo.RepositoryProvider, c *domain.Category) error {
		if parentID != nil {
			if err := checkParent(ctx, repos.CategoryRepo, *c, *parentID); err != nil {
				return err
			}
		}
		c.ParentID = parentID
		return nil
	})
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string, userID string) error {
	_, err := s.modify(ctx, categoryID, userID, "Category deleted", func(ctx context.Context, repos portsrepo.RepositoryProvider, c *domain.Category) error {
		n, err := repos.TransactionRepo.CountTransactionsByCategory(ctx, c.CategoryID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: category %s is used by %d transactions", apperrors.ErrConflict, c.CategoryID, n)
		}

		siblings, err := repos.CategoryRepo.ListCategories(ctx, &c.Kind)
		if err != nil {
			return err
		}
		for _, other := range siblings {
			if other.ParentID != nil && *other.ParentID == c.CategoryID && !other.IsDeleted {
				return fmt.Errorf("%w: category %s still has child %s", apperrors.ErrConflict, c.CategoryID, other.CategoryID)
			}
		}
		c.IsActive = false
		c.IsDeleted = true
		return nil
	})
	return err
}

// modify loads a live user category, applies fn and persists the result in one unit of work.
func (s *categoryService) modify(ctx context.Context, categoryID, userID, done string,
	fn func(ctx context.Context, repos portsrepo.RepositoryProvider, c *domain.Category) error) (*domain.Category, error) {
	var updated domain.Category
	err := s.store.WithTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		c, err := repos.CategoryRepo.FindCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c.IsSystem {
			return fmt.Errorf("%w: system category %s cannot be changed", apperrors.ErrValidation, categoryID)
		}
		if c.IsDeleted {
			return fmt.Errorf("%w: category %s is deleted", apperrors.ErrValidation, categoryID)
		}
		if err := fn(ctx, repos, c); err != nil {
			return err
		}
		c.Touch(time.Now().UTC(), userID)
		if err := repos.CategoryRepo.UpdateCategory(ctx, *c); err != nil {
			return err
		}
		updated = *c
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to modify category", slog.String("category_id", categoryID))
		return nil, err
	}
	s.LogInfo(ctx, done, slog.String("category_id", categoryID))
	return &updated, nil
}

func (s *categoryService) EnsureSystemCategories(ctx context.Context) error {
	repo := s.store.Repositories().CategoryRepo
	_, err := repo.FindCategoryByName(ctx, domain.CategoryTransfer, domain.SystemTransferCategoryName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	category := domain.Category{
		CategoryID:  uuid.NewString(),
		Name:        domain.SystemTransferCategoryName,
		Kind:        domain.CategoryTransfer,
		IsSystem:    true,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(time.Now().UTC(), systemUserID),
	}
	if err := repo.SaveCategory(ctx, category); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
		return err
	}
	s.LogInfo(ctx, "Seeded system transfer category", slog.String("category_id", category.CategoryID))
	return nil
}
