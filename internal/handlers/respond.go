package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/emilythestrangee/threadboard/backend/internal/apperr"
	"github.com/emilythestrangee/threadboard/backend/internal/middleware"
	"github.com/emilythestrangee/threadboard/backend/internal/store"
)

// respondError maps classified errors onto status codes. Anything
// unclassified is logged and reported as a generic 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": apperr.Message(err, "Not found")})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": apperr.Message(err, "Forbidden")})
	case errors.Is(err, apperr.ErrUnauthenticated):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(err, "Not authenticated")})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.Message(err, "Already exists")})
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

type pageQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=0"`
}

func bindPage(c *gin.Context) (store.Page, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip and limit must be non-negative integers"})
		return store.Page{}, false
	}
	return store.Page{Skip: q.Skip, Limit: q.Limit}, true
}

// requireUser reads the id set by the auth middleware.
func requireUser(c *gin.Context) (int, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return userID, true
}
