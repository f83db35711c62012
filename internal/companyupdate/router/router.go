// Package router provides company update module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/companyupdate/handler"
	"github.com/festy23/company_insights/internal/companyupdate/service"
)

// RegisterRoutes registers company update routes on a group that already requires an admin.
func RegisterRoutes(admin gin.IRouter, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	admin.POST("/companies/:slug/refresh", h.TriggerRefresh)
	admin.GET("/company-updates", h.List)
	admin.POST("/company-updates/:updateId/approve", h.Approve)
	admin.POST("/company-updates/:updateId/reject", h.Reject)
}
