// Package repository provides data access layer for company request module.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/company_insights/internal/companyrequest/model"
	"github.com/festy23/company_insights/internal/workflow"
)

// Repository defines the interface for company request data access operations.
type Repository interface {
	// Create inserts a new request.
	Create(ctx context.Context, req *model.CompanyRequest) error

	// GetByID finds request by id.
	GetByID(ctx context.Context, id int64) (*model.CompanyRequest, error)

	// ListByUser returns the user's requests, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.CompanyRequest, error)

	// List returns all requests, optionally filtered by status, oldest first.
	List(ctx context.Context, status *model.Status) ([]model.CompanyRequest, error)

	// TransitionStatus moves the request to `to` only if its current status is one of `from`.
	// Entering processing opens a new attempt. It reports whether the row was changed.
	TransitionStatus(ctx context.Context, id int64, from []model.Status, to model.Status) (bool, error)

	// ClaimAttempt marks background work for the given processing attempt as started.
	// It succeeds at most once per attempt.
	ClaimAttempt(ctx context.Context, id, attempt int64) (bool, error)

	// FinishAttempt moves the request out of processing only while the given attempt is current.
	FinishAttempt(ctx context.Context, id, attempt int64, to model.Status) (bool, error)

	// DeleteOwned removes the user's request if its status is one of statuses.
	DeleteOwned(ctx context.Context, id, userID int64, statuses []model.Status) (bool, error)

	// FailStale moves processing requests last touched before `before` to failed.
	FailStale(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new company request repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new request.
func (r *repository) Create(ctx context.Context, req *model.CompanyRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return workflow.Persistence("insert company request", err)
	}
	return nil
}

// GetByID finds request by id.
func (r *repository) GetByID(ctx context.Context, id int64) (*model.CompanyRequest, error) {
	var req model.CompanyRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrRequestNotFound
		}
		return nil, workflow.Persistence("get company request", err)
	}
	return &req, nil
}

// ListByUser returns the user's requests, newest first.
func (r *repository) ListByUser(ctx context.Context, userID int64) ([]model.CompanyRequest, error) {
	requests := []model.CompanyRequest{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, workflow.Persistence("list user company requests", err)
	}
	return requests, nil
}

// List returns all requests, optionally filtered by status, oldest first.
func (r *repository) List(ctx context.Context, status *model.Status) ([]model.CompanyRequest, error) {
	requests := []model.CompanyRequest{}
	query := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, workflow.Persistence("list company requests", err)
	}
	return requests, nil
}

// TransitionStatus performs a compare-and-set status write.
func (r *repository) TransitionStatus(ctx context.Context, id int64, from []model.Status, to model.Status) (bool, error) {
	values := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if to == model.StatusProcessing {
		values["attempt"] = gorm.Expr("attempt + 1")
		values["started_at"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.CompanyRequest{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, workflow.Persistence("update company request status", result.Error)
	}

	r.logger.Debugw("company request status write",
		"request_id", id,
		"from", from,
		"to", to,
		"rows_affected", result.RowsAffected,
	)
	return result.RowsAffected == 1, nil
}

// ClaimAttempt marks background work for the given processing attempt as started.
func (r *repository) ClaimAttempt(ctx context.Context, id, attempt int64) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.CompanyRequest{}).
		Where("id = ? AND status = ? AND attempt = ? AND started_at IS NULL", id, model.StatusProcessing, attempt).
		Updates(map[string]interface{}{
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, workflow.Persistence("claim company request attempt", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// FinishAttempt moves the request out of processing only while the given attempt is current.
func (r *repository) FinishAttempt(ctx context.Context, id, attempt int64, to model.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.CompanyRequest{}).
		Where("id = ? AND status = ? AND attempt = ?", id, model.StatusProcessing, attempt).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, workflow.Persistence("finish company request attempt", result.Error)
	}

	r.logger.Debugw("company request attempt finished",
		"request_id", id,
		"attempt", attempt,
		"to", to,
		"rows_affected", result.RowsAffected,
	)
	return result.RowsAffected == 1, nil
}

// DeleteOwned removes the user's request if its status is one of statuses.
func (r *repository) DeleteOwned(ctx context.Context, id, userID int64, statuses []model.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status IN ?", id, userID, statuses).
		Delete(&model.CompanyRequest{})
	if result.Error != nil {
		return false, workflow.Persistence("delete company request", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// FailStale moves processing requests last touched before `before` to failed.
func (r *repository) FailStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.CompanyRequest{}).
		Where("status = ? AND updated_at < ?", model.StatusProcessing, before).
		Updates(map[string]interface{}{
			"status":     model.StatusFailed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, workflow.Persistence("fail stale company requests", result.Error)
	}
	return result.RowsAffected, nil
}
