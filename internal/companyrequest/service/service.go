// Package service provides business logic layer for company request module.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	companyModel "github.com/festy23/company_insights/internal/company/model"
	companyRepository "github.com/festy23/company_insights/internal/company/repository"
	"github.com/festy23/company_insights/internal/companyrequest/model"
	"github.com/festy23/company_insights/internal/companyrequest/repository"
	"github.com/festy23/company_insights/internal/dispatch"
	"github.com/festy23/company_insights/internal/enrichment"
	"github.com/festy23/company_insights/internal/workflow"
)

// Service defines the interface for company request business logic operations.
type Service interface {
	// Submit creates a pending request for the user.
	Submit(ctx context.Context, userID int64, companyName string) (*model.CompanyRequest, error)

	// Approve moves a pending or failed request to processing and schedules enrichment.
	Approve(ctx context.Context, requestID, adminID int64) (*model.CompanyRequest, error)

	// Reject moves a pending request to rejected.
	Reject(ctx context.Context, requestID, adminID int64) (*model.CompanyRequest, error)

	// RunEnrichment performs the background step for a processing request.
	RunEnrichment(ctx context.Context, requestID int64) error

	// Get returns a single request.
	Get(ctx context.Context, requestID int64) (*model.CompanyRequest, error)

	// ListMine returns the user's requests.
	ListMine(ctx context.Context, userID int64) ([]model.CompanyRequest, error)

	// ListAll returns every request, optionally filtered by status.
	ListAll(ctx context.Context, status string) ([]model.CompanyRequest, error)

	// Delete withdraws the user's own request while it is still pending, failed or rejected.
	Delete(ctx context.Context, requestID, userID int64) error

	// FailStale fails requests stuck in processing for longer than olderThan.
	FailStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type service struct {
	repo       repository.Repository
	companies  companyRepository.Repository
	enricher   enrichment.Enricher
	dispatcher dispatch.Dispatcher
	logger     *zap.SugaredLogger
}

// New creates a new company request service instance.
func New(
	repo repository.Repository,
	companies companyRepository.Repository,
	enricher enrichment.Enricher,
	dispatcher dispatch.Dispatcher,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:       repo,
		companies:  companies,
		enricher:   enricher,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Submit creates a pending request for the user.
func (s *service) Submit(ctx context.Context, userID int64, companyName string) (*model.CompanyRequest, error) {
	s.logger.Debugw("Submit called", "user_id", userID)

	name, err := workflow.RequireText("company_name", companyName, model.MaxCompanyNameLength)
	if err != nil {
		return nil, err
	}

	req := &model.CompanyRequest{
		UserID:      userID,
		CompanyName: name,
		Status:      model.StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Errorw("Submit failed", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Infow("Submit completed", "request_id", req.ID, "user_id", userID, "company_name", name)
	return req, nil
}

// Approve moves a pending or failed request to processing and schedules enrichment.
func (s *service) Approve(ctx context.Context, requestID, adminID int64) (*model.CompanyRequest, error) {
	s.logger.Debugw("Approve called", "request_id", requestID, "admin_id", adminID)

	req, err := s.transition(ctx, requestID, model.StatusProcessing)
	if err != nil {
		return nil, err
	}

	attempt := req.Attempt
	taskName := fmt.Sprintf("enrich-request-%d", requestID)
	if err := s.dispatcher.Dispatch(taskName, func(ctx context.Context) error {
		return s.runAttempt(ctx, requestID, attempt)
	}); err != nil {
		s.logger.Errorw("Approve dispatch failed, marking request failed",
			"request_id", requestID,
			"error", err,
		)
		revertCtx := context.WithoutCancel(ctx)
		ok, rerr := s.repo.FinishAttempt(revertCtx, requestID, attempt, model.StatusFailed)
		if rerr != nil {
			s.logger.Errorw("Approve revert failed", "request_id", requestID, "error", rerr)
			return nil, rerr
		}
		if ok {
			req.Status = model.StatusFailed
		} else if current, gerr := s.repo.GetByID(revertCtx, requestID); gerr == nil {
			req = current
		}
		s.logger.Warnw("Approve completed without scheduling", "request_id", requestID, "status", req.Status)
		return req, nil
	}

	s.logger.Infow("Approve completed", "request_id", requestID, "admin_id", adminID, "attempt", attempt)
	return req, nil
}

// Reject moves a pending request to rejected.
func (s *service) Reject(ctx context.Context, requestID, adminID int64) (*model.CompanyRequest, error) {
	s.logger.Debugw("Reject called", "request_id", requestID, "admin_id", adminID)

	req, err := s.transition(ctx, requestID, model.StatusRejected)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Reject completed", "request_id", requestID, "admin_id", adminID)
	return req, nil
}

// transition performs the compare-and-set into `to` from every legal source status
// and returns the row as written. A refused write is explained as NotFound or Conflict.
func (s *service) transition(ctx context.Context, requestID int64, to model.Status) (*model.CompanyRequest, error) {
	ok, err := s.repo.TransitionStatus(ctx, requestID, model.Lifecycle.Sources(to), to)
	if err != nil {
		s.logger.Errorw("status transition failed", "request_id", requestID, "to", to, "error", err)
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Infow("status transition refused",
			"request_id", requestID,
			"to", to,
			"current_status", req.Status,
		)
		return nil, model.NewConflict(requestID, req.Status)
	}

	// A concurrent writer may already have moved the row on; report the state this call wrote.
	req.Status = to
	return req, nil
}

// RunEnrichment performs the background step for the request's current processing attempt.
func (s *service) RunEnrichment(ctx context.Context, requestID int64) error {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		s.logger.Errorw("RunEnrichment failed", "request_id", requestID, "error", err)
		return err
	}
	return s.runAttempt(ctx, requestID, req.Attempt)
}

// runAttempt enriches the request for one processing attempt. Work for an attempt
// that is no longer current or has already started is skipped, and the terminal
// status write only lands while the attempt is still current.
func (s *service) runAttempt(ctx context.Context, requestID, attempt int64) error {
	s.logger.Debugw("RunEnrichment called", "request_id", requestID, "attempt", attempt)

	claimed, err := s.repo.ClaimAttempt(ctx, requestID, attempt)
	if err != nil {
		s.logger.Errorw("RunEnrichment failed", "request_id", requestID, "error", err)
		return err
	}
	if !claimed {
		s.logger.Warnw("RunEnrichment skipped, attempt not claimable",
			"request_id", requestID,
			"attempt", attempt,
		)
		return nil
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		s.logger.Errorw("RunEnrichment failed", "request_id", requestID, "error", err)
		return err
	}

	outcome := model.StatusFailed
	defer func() {
		writeCtx := context.WithoutCancel(ctx)
		ok, err := s.repo.FinishAttempt(writeCtx, requestID, attempt, outcome)
		switch {
		case err != nil:
			s.logger.Errorw("RunEnrichment status write failed",
				"request_id", requestID,
				"status", outcome,
				"error", err,
			)
		case !ok:
			s.logger.Warnw("RunEnrichment status write dropped, attempt no longer current",
				"request_id", requestID,
				"attempt", attempt,
				"status", outcome,
			)
		default:
			s.logger.Infow("RunEnrichment completed", "request_id", requestID, "status", outcome)
		}
	}()

	data, err := s.enricher.Enrich(ctx, req.CompanyName, "")
	if err != nil {
		s.logger.Errorw("RunEnrichment enrichment failed",
			"request_id", requestID,
			"company_name", req.CompanyName,
			"error", err,
		)
		return err
	}

	if err := s.storeCompany(ctx, req, data); err != nil {
		s.logger.Errorw("RunEnrichment store failed", "request_id", requestID, "error", err)
		return err
	}

	outcome = model.StatusApproved
	return nil
}

// storeCompany inserts the enriched company unless one with the same slug exists.
func (s *service) storeCompany(ctx context.Context, req *model.CompanyRequest, data *enrichment.FetchedCompanyData) error {
	name := data.NameOr(req.CompanyName)
	slug := companyModel.Slugify(name)
	if slug == "" {
		return companyModel.ErrEmptySlug
	}

	exists, err := s.companies.ExistsBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Infow("company already exists, skipping insert", "request_id", req.ID, "slug", slug)
		return nil
	}

	company := newCompany(name, slug, data, req.UserID)
	if err := s.companies.Create(ctx, company); err != nil {
		if errors.Is(err, companyModel.ErrCompanyExists) {
			s.logger.Infow("company inserted concurrently, skipping", "request_id", req.ID, "slug", slug)
			return nil
		}
		return err
	}

	s.logger.Infow("company created", "request_id", req.ID, "company_id", company.ID, "slug", slug)
	return nil
}

// newCompany builds the canonical row, using the placeholder for descriptive
// fields the enrichment did not supply.
func newCompany(name, slug string, data *enrichment.FetchedCompanyData, requester int64) *companyModel.Company {
	orPlaceholder := func(v *string) string {
		if v == nil || *v == "" {
			return companyModel.Placeholder
		}
		return *v
	}
	description := orPlaceholder(data.Description)
	headquarters := orPlaceholder(data.Headquarters)

	return &companyModel.Company{
		Name:              name,
		Slug:              slug,
		Description:       &description,
		Logo:              data.Logo,
		Website:           data.Website,
		Headquarters:      &headquarters,
		PrimaryRevenue:    orPlaceholder(data.PrimaryRevenue),
		RevenueBreakdown:  data.RevenueBreakdown.String(),
		BusinessModel:     orPlaceholder(data.BusinessModel),
		RequestedByUserID: &requester,
	}
}

// Get returns a single request.
func (s *service) Get(ctx context.Context, requestID int64) (*model.CompanyRequest, error) {
	return s.repo.GetByID(ctx, requestID)
}

// ListMine returns the user's requests.
func (s *service) ListMine(ctx context.Context, userID int64) ([]model.CompanyRequest, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns every request, optionally filtered by status.
func (s *service) ListAll(ctx context.Context, status string) ([]model.CompanyRequest, error) {
	if status == "" {
		return s.repo.List(ctx, nil)
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, &st)
}

// Delete withdraws the user's own request while it is still pending, failed or rejected.
func (s *service) Delete(ctx context.Context, requestID, userID int64) error {
	s.logger.Debugw("Delete called", "request_id", requestID, "user_id", userID)

	ok, err := s.repo.DeleteOwned(ctx, requestID, userID, model.Deletable)
	if err != nil {
		s.logger.Errorw("Delete failed", "request_id", requestID, "error", err)
		return err
	}
	if !ok {
		req, err := s.repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req.UserID != userID {
			return model.ErrRequestNotFound
		}
		return model.NewConflict(requestID, req.Status)
	}

	s.logger.Infow("Delete completed", "request_id", requestID, "user_id", userID)
	return nil
}

// FailStale fails requests stuck in processing for longer than olderThan.
func (s *service) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.repo.FailStale(ctx, time.Now().Add(-olderThan))
	if err != nil {
		s.logger.Errorw("FailStale failed", "error", err)
		return 0, err
	}
	if n > 0 {
		s.logger.Warnw("FailStale marked stuck requests failed", "count", n, "older_than", olderThan)
	}
	return n, nil
}
