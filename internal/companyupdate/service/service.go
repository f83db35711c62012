// Package service provides business logic layer for company update module.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	companyModel "github.com/festy23/company_insights/internal/company/model"
	companyRepository "github.com/festy23/company_insights/internal/company/repository"
	"github.com/festy23/company_insights/internal/companyupdate/model"
	"github.com/festy23/company_insights/internal/companyupdate/repository"
	"github.com/festy23/company_insights/internal/dispatch"
	"github.com/festy23/company_insights/internal/enrichment"
	"github.com/festy23/company_insights/internal/workflow"
)

// Service defines the interface for company update business logic operations.
type Service interface {
	// TriggerRefresh schedules re-enrichment of an existing company from admin-supplied context.
	TriggerRefresh(ctx context.Context, slug, contextText string, adminID int64) (*companyModel.Company, error)

	// RunRefresh enriches the company and stages the result for review.
	RunRefresh(ctx context.Context, companyID int64, companyName string, requesterID int64, contextText string) error

	// Approve merges a pending update into its company.
	Approve(ctx context.Context, updateID, reviewerID int64) (*model.CompanyUpdate, error)

	// Reject discards a pending update.
	Reject(ctx context.Context, updateID, reviewerID int64) (*model.CompanyUpdate, error)

	// Get returns a single update.
	Get(ctx context.Context, updateID int64) (*model.CompanyUpdate, error)

	// List returns updates, optionally filtered by status.
	List(ctx context.Context, status string) ([]model.CompanyUpdate, error)
}

type service struct {
	repo       repository.Repository
	companies  companyRepository.Repository
	db         *gorm.DB
	enricher   enrichment.Enricher
	dispatcher dispatch.Dispatcher
	logger     *zap.SugaredLogger
	now        func() time.Time
}

// New creates a new company update service instance.
func New(
	repo repository.Repository,
	companies companyRepository.Repository,
	db *gorm.DB,
	enricher enrichment.Enricher,
	dispatcher dispatch.Dispatcher,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:       repo,
		companies:  companies,
		db:         db,
		enricher:   enricher,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// TriggerRefresh schedules re-enrichment of an existing company from admin-supplied context.
func (s *service) TriggerRefresh(
	ctx context.Context,
	slug, contextText string,
	adminID int64,
) (*companyModel.Company, error) {
	s.logger.Debugw("TriggerRefresh called", "slug", slug, "admin_id", adminID)

	text, err := workflow.RequireText("context", contextText, model.MaxContextLength)
	if err != nil {
		return nil, err
	}

	company, err := s.companies.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	taskName := fmt.Sprintf("refresh-company-%d", company.ID)
	companyID, companyName := company.ID, company.Name
	if err := s.dispatcher.Dispatch(taskName, func(ctx context.Context) error {
		return s.RunRefresh(ctx, companyID, companyName, adminID, text)
	}); err != nil {
		s.logger.Errorw("TriggerRefresh failed", "slug", slug, "error", err)
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}

	s.logger.Infow("TriggerRefresh completed", "company_id", company.ID, "slug", slug, "admin_id", adminID)
	return company, nil
}

// RunRefresh enriches the company and stages the result for review.
// Failures only reach the logs; no row is written.
func (s *service) RunRefresh(
	ctx context.Context,
	companyID int64,
	companyName string,
	requesterID int64,
	contextText string,
) error {
	s.logger.Debugw("RunRefresh called", "company_id", companyID)

	data, err := s.enricher.Enrich(ctx, companyName, contextText)
	if err != nil {
		s.logger.Errorw("RunRefresh enrichment failed",
			"company_id", companyID,
			"company_name", companyName,
			"error", err,
		)
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Errorw("RunRefresh failed", "company_id", companyID, "error", err)
		return enrichment.Failure("encode fetched data", err)
	}

	update := &model.CompanyUpdate{
		CompanyID:       companyID,
		FetchedData:     string(payload),
		Status:          model.StatusPendingReview,
		RequesterUserID: requesterID,
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), update); err != nil {
		s.logger.Errorw("RunRefresh failed", "company_id", companyID, "error", err)
		return err
	}

	s.logger.Infow("RunRefresh completed", "company_id", companyID, "update_id", update.ID)
	return nil
}

// Approve merges a pending update into its company. The status check, the merge
// and the status write share one transaction; any error rolls all of them back.
func (s *service) Approve(ctx context.Context, updateID, reviewerID int64) (*model.CompanyUpdate, error) {
	s.logger.Debugw("Approve called", "update_id", updateID, "reviewer_id", reviewerID)

	var result *model.CompanyUpdate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.approveInTransaction(ctx, tx, updateID, reviewerID)
		return txErr
	})
	if err != nil {
		s.logger.Errorw("Approve failed", "update_id", updateID, "error", err)
		return nil, err
	}

	s.logger.Infow("Approve completed",
		"update_id", updateID,
		"company_id", result.CompanyID,
		"reviewer_id", reviewerID,
	)
	return result, nil
}

// approveInTransaction performs the locked re-check, partial merge and status write.
func (s *service) approveInTransaction(
	ctx context.Context,
	tx *gorm.DB,
	updateID, reviewerID int64,
) (*model.CompanyUpdate, error) {
	txRepo := repository.New(tx, s.logger)
	txCompanies := companyRepository.New(tx, s.logger)

	update, err := txRepo.GetForUpdate(ctx, updateID)
	if err != nil {
		return nil, err
	}
	if !model.Review.Can(update.Status, model.StatusApproved) {
		return nil, model.NewConflict(updateID, update.Status)
	}

	data, err := enrichment.ParseFetchedData([]byte(update.FetchedData))
	if err != nil {
		return nil, fmt.Errorf("update %d carries unreadable data: %w", updateID, err)
	}

	patch := data.Patch()
	if !patch.IsEmpty() {
		if err := txCompanies.ApplyPatch(ctx, update.CompanyID, patch); err != nil {
			return nil, err
		}
	}

	at := s.now()
	ok, err := txRepo.Review(ctx, updateID, model.Review.Sources(model.StatusApproved), model.StatusApproved, reviewerID, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := txRepo.GetByID(ctx, updateID)
		if err != nil {
			return nil, err
		}
		return nil, model.NewConflict(updateID, current.Status)
	}

	update.Status = model.StatusApproved
	update.ReviewerUserID = &reviewerID
	update.ReviewedAt = &at
	return update, nil
}

// Reject discards a pending update.
func (s *service) Reject(ctx context.Context, updateID, reviewerID int64) (*model.CompanyUpdate, error) {
	s.logger.Debugw("Reject called", "update_id", updateID, "reviewer_id", reviewerID)

	ok, err := s.repo.Review(ctx, updateID, model.Review.Sources(model.StatusRejected), model.StatusRejected, reviewerID, s.now())
	if err != nil {
		s.logger.Errorw("Reject failed", "update_id", updateID, "error", err)
		return nil, err
	}

	update, err := s.repo.GetByID(ctx, updateID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Infow("Reject refused", "update_id", updateID, "current_status", update.Status)
		return nil, model.NewConflict(updateID, update.Status)
	}

	s.logger.Infow("Reject completed", "update_id", updateID, "reviewer_id", reviewerID)
	return update, nil
}

// Get returns a single update.
func (s *service) Get(ctx context.Context, updateID int64) (*model.CompanyUpdate, error) {
	return s.repo.GetByID(ctx, updateID)
}

// List returns updates, optionally filtered by status.
func (s *service) List(ctx context.Context, status string) ([]model.CompanyUpdate, error) {
	if status == "" {
		return s.repo.List(ctx, nil)
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, &st)
}
