package handler

import (
	"strconv"

	"github.com/gearbox-rentals/service-rental/internal/application"
	"github.com/gearbox-rentals/service-rental/internal/auth"
	"github.com/gearbox-rentals/service-rental/internal/domain"
	"github.com/gearbox-rentals/service-rental/internal/middleware"
	"github.com/gearbox-rentals/service-rental/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers booking routes on the given router group. The
// availability search lives under /cars because it returns cars, but it is
// served here since it runs the booking-overlap predicate.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	r.POST("/api/v1/cars/search", h.SearchAvailableCars)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(middleware.AuthMiddleware(jwtManager))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.POST("/:id/status", middleware.RequireRole(auth.RoleOwner), h.ChangeStatus)
	}
}

// SearchAvailableCars handles POST /api/v1/cars/search. Public: renters
// browse availability before logging in.
func (h *BookingHandler) SearchAvailableCars(c *gin.Context) {
	var req application.SearchCarsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cars, err := h.service.SearchAvailableCars(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, cars)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), renterID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings. Owners see bookings against
// their cars; everyone else sees the bookings they created.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	role, _ := middleware.GetUserRole(c)
	page, limit := parsePagination(c)

	var (
		result *domain.PaginatedResult[application.BookingDTO]
		err    error
	)
	if role == auth.RoleOwner && c.Query("as") != "renter" {
		result, err = h.service.GetOwnerBookings(c.Request.Context(), userID, page, limit)
	} else {
		result, err = h.service.GetRenterBookings(c.Request.Context(), userID, page, limit)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ChangeStatus handles POST /api/v1/bookings/:id/status.
func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ChangeBookingStatus(c.Request.Context(), actorID, bookingID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
