package handler

import (
	"github.com/gearbox-rentals/service-rental/internal/application"
	"github.com/gearbox-rentals/service-rental/internal/auth"
	"github.com/gearbox-rentals/service-rental/internal/middleware"
	"github.com/gearbox-rentals/service-rental/internal/response"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the owner dashboard aggregate.
type DashboardHandler struct {
	service *application.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *application.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// RegisterRoutes registers dashboard routes on the given router group.
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	owner := r.Group("/api/v1/owner")
	owner.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleOwner))
	{
		owner.GET("/dashboard", h.GetDashboard)
	}
}

// GetDashboard handles GET /api/v1/owner/dashboard.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetOwnerDashboard(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
