// Package router provides statistics module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/company_insights/internal/statistics/handler"
	"github.com/festy23/company_insights/internal/statistics/repository"
	"github.com/festy23/company_insights/internal/statistics/service"
)

// RegisterRoutes registers statistics module routes on an admin group.
func RegisterRoutes(admin gin.IRouter, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	admin.GET("/statistics/pipeline", h.GetPipelineStatistics)
}
