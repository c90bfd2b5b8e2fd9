package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/middleware"
	"github.com/kendall-kelly/pedidos-api/services"
)

// RegisterUserRequest represents the request body for creating an account
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func secureCookies() bool {
	cfg := config.GetConfig()
	return cfg != nil && cfg.IsProduction()
}

// RegisterUser handles POST /usuarios/register
func RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	auth := services.NewAuthService(config.GetDB(), services.GetSessionService())
	user, err := auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// Login handles POST /usuarios/login - sets the HTTP-only session cookie
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sessions := services.GetSessionService()
	auth := services.NewAuthService(config.GetDB(), sessions)
	user, token, err := auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(sessions.TTL().Seconds()), "/", "", secureCookies(), true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// Logout handles POST /usuarios/logout - clears the session cookie
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", secureCookies(), true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetCurrentUser handles GET /usuarios/me
func GetCurrentUser(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.NewAuthError("UNAUTHORIZED", "Could not extract user information"))
		return
	}

	user, err := services.NewUserService(config.GetDB()).Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListUsers handles GET /usuarios
func ListUsers(c *gin.Context) {
	users, err := services.NewUserService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": users})
}

// GetUser handles GET /usuarios/:id
func GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := services.NewUserService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// requireSelf writes a 403 unless the session user is the user id in the path
func requireSelf(c *gin.Context, id uint) bool {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, services.NewAuthError("UNAUTHORIZED", "Could not extract user information"))
		return false
	}
	if userID != id {
		respondError(c, services.NewForbiddenError("FORBIDDEN", "You can only modify your own account"))
		return false
	}
	return true
}

// UpdateUser handles PUT /usuarios/:id - only the session user may change their own account
func UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !requireSelf(c, id) {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).Update(c.Request.Context(), id, services.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// DeleteUser handles DELETE /usuarios/:id - only the session user may delete their own account
func DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !requireSelf(c, id) {
		return
	}
	if err := services.NewUserService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
