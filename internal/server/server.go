package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/threadboard/backend/internal/auth"
	"github.com/emilythestrangee/threadboard/backend/internal/config"
	"github.com/emilythestrangee/threadboard/backend/internal/database"
	"github.com/emilythestrangee/threadboard/backend/internal/handlers"
	"github.com/emilythestrangee/threadboard/backend/internal/middleware"
	"github.com/emilythestrangee/threadboard/backend/internal/store"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
	guard   *auth.Guard
}

// New wires the store, token service and handlers on top of an open
// database.
func New(cfg *config.Config, db database.Service, opts ...auth.TokenOption) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.Auth, opts...)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	st := store.New(db.GetDB())
	authService := auth.NewService(st, tokens, nil)

	return &Server{
		cfg:     cfg,
		db:      db,
		handler: handlers.NewHandler(st, authService),
		guard:   auth.NewGuard(tokens),
	}, nil
}

// NewServer creates and configures a new HTTP server
func NewServer(cfg *config.Config, db database.Service) (*http.Server, error) {
	s, err := New(cfg, db)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.CORS.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		stats := s.db.Health()
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})

	requireAuth := middleware.AuthMiddleware(s.guard)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", s.handler.Auth.Register)
		authRoutes.POST("/token", s.handler.Auth.Token)
		authRoutes.POST("/refresh", requireAuth, s.handler.Auth.Refresh)
		authRoutes.GET("/me", requireAuth, s.handler.Auth.GetMe)
	}

	posts := r.Group("/posts")
	{
		// Public reads
		both(posts, http.MethodGet, s.handler.Post.GetPosts)
		posts.GET("/user/:id", s.handler.Post.GetUserPosts)
		posts.GET("/:id", s.handler.Post.GetPost)

		// Owner or authenticated writes
		both(posts, http.MethodPost, requireAuth, s.handler.Post.CreatePost)
		posts.PUT("/:id", requireAuth, s.handler.Post.UpdatePost)
		posts.PATCH("/:id", requireAuth, s.handler.Post.UpdatePost)
		posts.DELETE("/:id", requireAuth, s.handler.Post.DeletePost)
	}

	comments := r.Group("/comments")
	{
		both(comments, http.MethodGet, s.handler.Comment.GetComments)
		comments.GET("/user/:id", s.handler.Comment.GetUserComments)
		comments.GET("/:id", s.handler.Comment.GetComment)
		comments.GET("/:id/replies", s.handler.Comment.GetCommentReplies)

		both(comments, http.MethodPost, requireAuth, s.handler.Comment.CreateComment)
		comments.POST("/:id/replies", requireAuth, s.handler.Comment.CreateReply)
		comments.PUT("/:id", requireAuth, s.handler.Comment.UpdateComment)
		comments.PATCH("/:id", requireAuth, s.handler.Comment.UpdateComment)
		comments.DELETE("/:id", requireAuth, s.handler.Comment.DeleteComment)
	}

	r.GET("/users/:id", s.handler.User.GetUserProfile)

	return r
}

// both registers the collection route with and without the trailing slash
// so neither form is answered with a redirect.
func both(g *gin.RouterGroup, method string, h ...gin.HandlerFunc) {
	g.Handle(method, "", h...)
	g.Handle(method, "/", h...)
}
