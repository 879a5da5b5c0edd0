// Package categories manages the shared product taxonomy.
package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes category tree operations.
type Service interface {
	Create(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error)
	Reparent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]Node, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds a category service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	if len(name) > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is too long")
	}
	if parentID != nil {
		if _, err := s.Get(ctx, *parentID); err != nil {
			return nil, err
		}
	}
	category := &models.Category{Name: name, ParentID: parentID}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

// Reparent moves a category under parentID (nil makes it a root). Moving a
// category under itself or one of its descendants is rejected.
func (s *service) Reparent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		all, err := repo.ListAllForUpdate(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load categories")
		}
		byID := index(all)
		if _, ok := byID[id]; !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		if parentID != nil {
			if _, ok := byID[*parentID]; !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parent category not found")
			}
			if isAncestor(byID, id, *parentID) {
				return pkgerrors.New(pkgerrors.CodeValidation, "a category cannot be its own ancestor")
			}
		}
		if err := repo.UpdateParent(ctx, id, parentID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category parent")
		}
		return nil
	})
}

// Delete removes the category with its subcategories; their products become uncategorised.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		all, err := repo.ListAll(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load categories")
		}
		if _, ok := index(all)[id]; !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		if err := repo.DeleteSubtree(ctx, descendants(all, id)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) List(ctx context.Context) ([]Node, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return buildTree(all), nil
}

func index(all []models.Category) map[uuid.UUID]models.Category {
	byID := make(map[uuid.UUID]models.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	return byID
}
