package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/threadboard/backend/internal/auth"
	"github.com/emilythestrangee/threadboard/backend/internal/models"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles user registration. A successful registration also logs
// the user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusOK, models.RegisterResponse{
		User:  models.ToUserResponse(user),
		Token: models.NewTokenResponse(token),
	})
}

// Token exchanges a username or email plus password for an access token.
func (h *AuthHandler) Token(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), input.Identifier, input.Password)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, models.NewTokenResponse(token))
}

// Refresh issues a new token to the bearer of a still valid one.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	token, err := h.auth.Refresh(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, models.NewTokenResponse(token))
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, models.ToUserResponse(user))
}
