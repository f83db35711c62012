// Package repository provides data access layer for statistics module.
package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	companyModel "github.com/festy23/company_insights/internal/company/model"
	"github.com/festy23/company_insights/internal/statistics/model"
)

// Repository defines the interface for statistics data access operations.
type Repository interface {
	// GetRequestStatistics counts company requests by status.
	GetRequestStatistics(ctx context.Context) (*model.RequestStatistics, error)

	// GetUpdateStatistics counts company updates by status.
	GetUpdateStatistics(ctx context.Context) (*model.UpdateStatistics, error)

	// GetCompanyStatistics counts companies.
	GetCompanyStatistics(ctx context.Context) (*model.CompanyStatistics, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// GetRequestStatistics counts company requests by status.
func (r *repository) GetRequestStatistics(ctx context.Context) (*model.RequestStatistics, error) {
	r.logger.Debugw("GetRequestStatistics called")

	var result struct {
		Total      int64 `gorm:"column:total"`
		Pending    int64 `gorm:"column:pending"`
		Processing int64 `gorm:"column:processing"`
		Approved   int64 `gorm:"column:approved"`
		Rejected   int64 `gorm:"column:rejected"`
		Failed     int64 `gorm:"column:failed"`
	}

	err := r.db.WithContext(ctx).
		Table("company_requests").
		Select(`
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) as pending,
			COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0) as processing,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) as approved,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) as rejected,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) as failed
		`).
		Scan(&result).Error
	if err != nil {
		r.logger.Errorw("GetRequestStatistics database error", "error", err)
		return nil, err
	}

	return &model.RequestStatistics{
		Total:      int(result.Total),
		Pending:    int(result.Pending),
		Processing: int(result.Processing),
		Approved:   int(result.Approved),
		Rejected:   int(result.Rejected),
		Failed:     int(result.Failed),
	}, nil
}

// GetUpdateStatistics counts company updates by status.
func (r *repository) GetUpdateStatistics(ctx context.Context) (*model.UpdateStatistics, error) {
	r.logger.Debugw("GetUpdateStatistics called")

	var result struct {
		Total         int64 `gorm:"column:total"`
		PendingReview int64 `gorm:"column:pending_review"`
		Approved      int64 `gorm:"column:approved"`
		Rejected      int64 `gorm:"column:rejected"`
	}

	err := r.db.WithContext(ctx).
		Table("company_updates").
		Select(`
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = 'pending_review' THEN 1 ELSE 0 END), 0) as pending_review,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) as approved,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) as rejected
		`).
		Scan(&result).Error
	if err != nil {
		r.logger.Errorw("GetUpdateStatistics database error", "error", err)
		return nil, err
	}

	return &model.UpdateStatistics{
		Total:         int(result.Total),
		PendingReview: int(result.PendingReview),
		Approved:      int(result.Approved),
		Rejected:      int(result.Rejected),
	}, nil
}

// GetCompanyStatistics counts companies.
func (r *repository) GetCompanyStatistics(ctx context.Context) (*model.CompanyStatistics, error) {
	r.logger.Debugw("GetCompanyStatistics called")

	var result struct {
		Total       int64 `gorm:"column:total"`
		NeedsReview int64 `gorm:"column:needs_review"`
	}

	err := r.db.WithContext(ctx).
		Table("companies").
		Select(`
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN description = ? THEN 1 ELSE 0 END), 0) as needs_review
		`, companyModel.Placeholder).
		Scan(&result).Error
	if err != nil {
		r.logger.Errorw("GetCompanyStatistics database error", "error", err)
		return nil, err
	}

	return &model.CompanyStatistics{
		Total:       int(result.Total),
		NeedsReview: int(result.NeedsReview),
	}, nil
}
