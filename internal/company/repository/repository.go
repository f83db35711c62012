// Package repository provides data access layer for company module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/company_insights/internal/company/model"
	"github.com/festy23/company_insights/internal/workflow"
)

// Repository defines the interface for company data access operations.
type Repository interface {
	// GetByID finds company by id.
	GetByID(ctx context.Context, id int64) (*model.Company, error)

	// GetBySlug finds company by slug.
	GetBySlug(ctx context.Context, slug string) (*model.Company, error)

	// ExistsBySlug reports whether a company with the slug exists.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Create inserts a new company.
	Create(ctx context.Context, company *model.Company) error

	// ApplyPatch updates only the columns set in patch.
	ApplyPatch(ctx context.Context, id int64, patch model.Patch) error

	// List returns all companies ordered by name.
	List(ctx context.Context) ([]model.Company, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new company repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// GetByID finds company by id.
func (r *repository) GetByID(ctx context.Context, id int64) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrCompanyNotFound
		}
		return nil, workflow.Persistence("get company", err)
	}
	return &company, nil
}

// GetBySlug finds company by slug.
func (r *repository) GetBySlug(ctx context.Context, slug string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrCompanyNotFound
		}
		return nil, workflow.Persistence("get company by slug", err)
	}
	return &company, nil
}

// ExistsBySlug reports whether a company with the slug exists.
func (r *repository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Company{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, workflow.Persistence("check company slug", err)
	}
	return count > 0, nil
}

// Create inserts a new company.
func (r *repository) Create(ctx context.Context, company *model.Company) error {
	err := r.db.WithContext(ctx).Create(company).Error
	if err != nil {
		if isDuplicateError(err) {
			return model.ErrCompanyExists
		}
		return workflow.Persistence("insert company", err)
	}

	r.logger.Debugw("company created", "company_id", company.ID, "slug", company.Slug)
	return nil
}

// ApplyPatch updates only the columns set in patch.
func (r *repository) ApplyPatch(ctx context.Context, id int64, patch model.Patch) error {
	columns := patch.Columns()
	if len(columns) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.Company{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return workflow.Persistence("apply company patch", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrCompanyNotFound
	}

	return nil
}

// List returns all companies ordered by name.
func (r *repository) List(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).Order("name ASC").Find(&companies).Error
	if err != nil {
		return nil, workflow.Persistence("list companies", err)
	}
	if companies == nil {
		return []model.Company{}, nil
	}
	return companies, nil
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
