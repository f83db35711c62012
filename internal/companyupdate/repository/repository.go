// Package repository provides data access layer for company update module.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/company_insights/internal/companyupdate/model"
	"github.com/festy23/company_insights/internal/workflow"
)

// Repository defines the interface for company update data access operations.
type Repository interface {
	// Create inserts a staged update.
	Create(ctx context.Context, update *model.CompanyUpdate) error

	// GetByID finds update by id.
	GetByID(ctx context.Context, id int64) (*model.CompanyUpdate, error)

	// GetForUpdate finds update by id and locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*model.CompanyUpdate, error)

	// List returns updates, optionally filtered by status, newest first.
	List(ctx context.Context, status *model.Status) ([]model.CompanyUpdate, error)

	// Review records a reviewer decision only if the current status is one of `from`.
	// It reports whether the row was changed.
	Review(ctx context.Context, id int64, from []model.Status, to model.Status, reviewerID int64, at time.Time) (bool, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new company update repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a staged update.
func (r *repository) Create(ctx context.Context, update *model.CompanyUpdate) error {
	if err := r.db.WithContext(ctx).Create(update).Error; err != nil {
		return workflow.Persistence("insert company update", err)
	}
	return nil
}

// GetByID finds update by id.
func (r *repository) GetByID(ctx context.Context, id int64) (*model.CompanyUpdate, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate finds update by id with a row lock. SQLite ignores the lock
// and serializes writers instead.
func (r *repository) GetForUpdate(ctx context.Context, id int64) (*model.CompanyUpdate, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) get(db *gorm.DB, id int64) (*model.CompanyUpdate, error) {
	var update model.CompanyUpdate
	err := db.Where("id = ?", id).First(&update).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUpdateNotFound
		}
		return nil, workflow.Persistence("get company update", err)
	}
	return &update, nil
}

// List returns updates, optionally filtered by status, newest first.
func (r *repository) List(ctx context.Context, status *model.Status) ([]model.CompanyUpdate, error) {
	updates := []model.CompanyUpdate{}
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Find(&updates).Error; err != nil {
		return nil, workflow.Persistence("list company updates", err)
	}
	return updates, nil
}

// Review records a reviewer decision with a compare-and-set on status.
func (r *repository) Review(
	ctx context.Context,
	id int64,
	from []model.Status,
	to model.Status,
	reviewerID int64,
	at time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.CompanyUpdate{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":           to,
			"reviewer_user_id": reviewerID,
			"reviewed_at":      at,
		})
	if result.Error != nil {
		return false, workflow.Persistence("update company update status", result.Error)
	}

	r.logger.Debugw("company update status write",
		"update_id", id,
		"to", to,
		"reviewer_id", reviewerID,
		"rows_affected", result.RowsAffected,
	)
	return result.RowsAffected == 1, nil
}
