// Package router provides company request module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/companyrequest/handler"
	"github.com/festy23/company_insights/internal/companyrequest/service"
)

// RegisterRoutes registers company request routes. user must already require
// authentication and admin must require an admin identity. submitMiddleware
// runs in front of the submit endpoint only.
func RegisterRoutes(
	user gin.IRouter,
	admin gin.IRouter,
	svc service.Service,
	logger *zap.SugaredLogger,
	submitMiddleware ...gin.HandlerFunc,
) {
	h := handler.New(svc, logger)

	submit := append(append([]gin.HandlerFunc{}, submitMiddleware...), h.Submit)
	user.POST("/company-requests", submit...)
	user.GET("/company-requests", h.ListMine)
	user.DELETE("/company-requests/:requestId", h.Delete)

	admin.GET("/company-requests", h.ListAll)
	admin.PATCH("/company-requests/:requestId", h.Approve)
	admin.PATCH("/company-requests/:requestId/reject", h.Reject)
	admin.DELETE("/company-requests/:requestId", h.Reject)
}
