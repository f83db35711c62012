// Package service provides business logic layer for statistics module.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/statistics/model"
	"github.com/festy23/company_insights/internal/statistics/repository"
)

// Service defines the interface for statistics business logic operations.
type Service interface {
	// GetPipelineStatistics returns request, update and company counters.
	GetPipelineStatistics(ctx context.Context) (*model.PipelineStatisticsResponse, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

// GetPipelineStatistics returns request, update and company counters.
func (s *service) GetPipelineStatistics(ctx context.Context) (*model.PipelineStatisticsResponse, error) {
	s.logger.Debugw("GetPipelineStatistics called")

	requests, err := s.repo.GetRequestStatistics(ctx)
	if err != nil {
		s.logger.Errorw("GetPipelineStatistics failed", "section", "requests", "error", err)
		return nil, err
	}

	updates, err := s.repo.GetUpdateStatistics(ctx)
	if err != nil {
		s.logger.Errorw("GetPipelineStatistics failed", "section", "updates", "error", err)
		return nil, err
	}

	companies, err := s.repo.GetCompanyStatistics(ctx)
	if err != nil {
		s.logger.Errorw("GetPipelineStatistics failed", "section", "companies", "error", err)
		return nil, err
	}

	s.logger.Infow("GetPipelineStatistics completed",
		"requests", requests.Total,
		"updates", updates.Total,
		"companies", companies.Total,
	)
	return &model.PipelineStatisticsResponse{
		Requests:  *requests,
		Updates:   *updates,
		Companies: *companies,
	}, nil
}
