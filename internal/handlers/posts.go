package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/threadboard/backend/internal/models"
	"github.com/emilythestrangee/threadboard/backend/internal/store"
)

type PostHandler struct {
	store *store.Store
}

func NewPostHandler(st *store.Store) *PostHandler {
	return &PostHandler{store: st}
}

// GetPosts lists posts, paginated by skip/limit.
func (h *PostHandler) GetPosts(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	posts, err := h.store.ListPosts(c.Request.Context(), page)
	if err != nil {
		respondError(c, err, "Failed to fetch posts")
		return
	}
	h.respondPosts(c, posts)
}

// GetUserPosts returns all posts by a specific user
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	posts, err := h.store.ListPostsByOwner(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, err, "Failed to fetch user posts")
		return
	}
	h.respondPosts(c, posts)
}

func (h *PostHandler) respondPosts(c *gin.Context, posts []models.Post) {
	counts, err := h.store.CommentCounts(c.Request.Context(), store.PostIDs(posts)...)
	if err != nil {
		respondError(c, err, "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, models.ToPostResponses(posts, counts))
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.store.GetPost(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err, "Failed to fetch post")
		return
	}
	h.respondPost(c, post)
}

func (h *PostHandler) respondPost(c *gin.Context, post *models.Post) {
	count, err := h.store.CommentCount(c.Request.Context(), post.ID)
	if err != nil {
		respondError(c, err, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, models.ToPostResponse(post, count))
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	post, err := h.store.CreatePost(c.Request.Context(), input.Title, input.Content, userID)
	if err != nil {
		respondError(c, err, "Failed to create post")
		return
	}
	c.JSON(http.StatusOK, models.ToPostResponse(post, 0))
}

// UpdatePost updates an existing post (PROTECTED - requires ownership)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.store.UpdatePost(c.Request.Context(), postID, patch, userID)
	if err != nil {
		respondError(c, err, "Failed to update post")
		return
	}
	h.respondPost(c, post)
}

// DeletePost deletes a post (PROTECTED - requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.store.DeletePost(c.Request.Context(), postID, userID); err != nil {
		respondError(c, err, "Failed to delete post")
		return
	}
	c.Status(http.StatusNoContent)
}
