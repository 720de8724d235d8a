package handler

import (
	"github.com/gearbox-rentals/service-rental/internal/application"
	"github.com/gearbox-rentals/service-rental/internal/auth"
	"github.com/gearbox-rentals/service-rental/internal/middleware"
	"github.com/gearbox-rentals/service-rental/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CarHandler handles HTTP requests for car listing operations.
type CarHandler struct {
	service *application.CarService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *application.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers car routes on the given router group. Browsing
// is public; listing management requires the owner role.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	cars := r.Group("/api/v1/cars")
	{
		cars.GET("", h.ListPublicCars)
		cars.GET("/:id", h.GetCar)
	}

	owner := r.Group("/api/v1/owner/cars")
	owner.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleOwner))
	{
		owner.POST("", h.AddCar)
		owner.GET("", h.ListOwnerCars)
		owner.PATCH("/:id/availability", h.ToggleAvailability)
		owner.DELETE("/:id", h.DeleteCar)
	}
}

// ListPublicCars handles GET /api/v1/cars.
func (h *CarHandler) ListPublicCars(c *gin.Context) {
	cars, err := h.service.GetPublicCars(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cars)
}

// GetCar handles GET /api/v1/cars/:id.
func (h *CarHandler) GetCar(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), carID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddCar handles POST /api/v1/owner/cars.
func (h *CarHandler) AddCar(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.AddCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddCar(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListOwnerCars handles GET /api/v1/owner/cars.
func (h *CarHandler) ListOwnerCars(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	cars, err := h.service.GetOwnerCars(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, cars)
}

// ToggleAvailability handles PATCH /api/v1/owner/cars/:id/availability.
func (h *CarHandler) ToggleAvailability(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.ToggleAvailability(c.Request.Context(), ownerID, carID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteCar handles DELETE /api/v1/owner/cars/:id.
func (h *CarHandler) DeleteCar(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.service.DeleteCar(c.Request.Context(), ownerID, carID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "car deleted")
}
