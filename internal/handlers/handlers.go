package handlers

import (
	"github.com/emilythestrangee/threadboard/backend/internal/auth"
	"github.com/emilythestrangee/threadboard/backend/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(st *store.Store, authService *auth.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(authService),
		Post:    NewPostHandler(st),
		Comment: NewCommentHandler(st),
		User:    NewUserHandler(st),
	}
}
