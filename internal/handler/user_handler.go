package handler

import (
	"github.com/gearbox-rentals/service-rental/internal/application"
	"github.com/gearbox-rentals/service-rental/internal/auth"
	"github.com/gearbox-rentals/service-rental/internal/middleware"
	"github.com/gearbox-rentals/service-rental/internal/response"
	"github.com/gin-gonic/gin"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	service *application.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers account routes on the given router group.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	users := r.Group("/api/v1/users")
	users.Use(middleware.AuthMiddleware(jwtManager))
	{
		users.GET("/me", h.GetProfile)
		users.POST("/me/owner-role", h.PromoteToOwner)
		users.PATCH("/me/image", h.UpdateImage)
	}
}

// Register handles POST /api/v1/auth/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req application.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles POST /api/v1/auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetProfile handles GET /api/v1/users/me.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PromoteToOwner handles POST /api/v1/users/me/owner-role. Returns fresh
// tokens carrying the new role.
func (h *UserHandler) PromoteToOwner(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.PromoteToOwner(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateImage handles PATCH /api/v1/users/me/image.
func (h *UserHandler) UpdateImage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateProfileImage(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
