package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/threadboard/backend/internal/models"
	"github.com/emilythestrangee/threadboard/backend/internal/store"
)

type CommentHandler struct {
	store *store.Store
}

func NewCommentHandler(st *store.Store) *CommentHandler {
	return &CommentHandler{store: st}
}

// GetComments returns all comments, paginated by skip/limit.
func (h *CommentHandler) GetComments(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	comments, err := h.store.ListComments(c.Request.Context(), page)
	if err != nil {
		respondError(c, err, "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, models.ToCommentResponses(comments))
}

// GetUserComments returns the comments written by one user.
func (h *CommentHandler) GetUserComments(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	comments, err := h.store.ListCommentsByOwner(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, err, "Failed to fetch user comments")
		return
	}
	c.JSON(http.StatusOK, models.ToCommentResponses(comments))
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comment, err := h.store.GetComment(c.Request.Context(), commentID)
	if err != nil {
		respondError(c, err, "Failed to fetch comment")
		return
	}
	c.JSON(http.StatusOK, models.ToCommentResponse(comment))
}

// GetCommentReplies returns the comment with its direct replies only.
func (h *CommentHandler) GetCommentReplies(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comment, err := h.store.GetCommentWithReplies(c.Request.Context(), commentID)
	if err != nil {
		respondError(c, err, "Failed to fetch replies")
		return
	}
	c.JSON(http.StatusOK, models.ToCommentResponse(comment))
}

// CreateComment creates a comment on a post, optionally as a reply.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	comment, err := h.store.CreateComment(c.Request.Context(), input.Content, input.PostID, input.ParentID, userID)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}
	c.JSON(http.StatusOK, models.ToCommentResponse(comment))
}

// CreateReply replies to the comment in the path, on that comment's post.
func (h *CommentHandler) CreateReply(c *gin.Context) {
	parentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.CreateReplyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := requireUser(c)
	if !ok {
		return
	}

	reply, err := h.store.CreateReply(c.Request.Context(), parentID, input.Content, userID)
	if err != nil {
		respondError(c, err, "Failed to create reply")
		return
	}
	c.JSON(http.StatusOK, models.ToCommentResponse(reply))
}

// UpdateComment updates a comment (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var patch models.CommentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.store.UpdateComment(c.Request.Context(), commentID, patch, userID)
	if err != nil {
		respondError(c, err, "Failed to update comment")
		return
	}
	c.JSON(http.StatusOK, models.ToCommentResponse(comment))
}

// DeleteComment deletes a comment and every reply below it (owner only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.store.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		respondError(c, err, "Failed to delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}
