// Package router provides company module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/company_insights/internal/company/handler"
	"github.com/festy23/company_insights/internal/company/repository"
)

// RegisterRoutes registers company module routes.
func RegisterRoutes(r gin.IRouter, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	h := handler.New(repo, logger)

	r.GET("/companies", h.ListCompanies)
	r.GET("/companies/:slug", h.GetCompany)
}
