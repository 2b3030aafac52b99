package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/threadboard/backend/internal/auth"
	"github.com/emilythestrangee/threadboard/backend/internal/models"
)

const commentForbidden = "Not authorized to modify this comment"

func (s *Store) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	var c models.Comment
	if err := s.first(ctx, &c, id, "Comment not found"); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment checks that the post and, when given, the parent comment
// exist. The parent is not required to sit on the same post.
func (s *Store) CreateComment(ctx context.Context, content string, postID int, parentID *int, ownerID int) (*models.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	if parentID != nil {
		if err := s.first(ctx, &models.Comment{}, *parentID, "Parent comment not found"); err != nil {
			return nil, err
		}
	}
	return s.insertComment(ctx, &models.Comment{
		Content:  content,
		PostID:   postID,
		ParentID: parentID,
		OwnerID:  ownerID,
	})
}

// CreateReply attaches a reply to parentID on the parent's post.
func (s *Store) CreateReply(ctx context.Context, parentID int, content string, ownerID int) (*models.Comment, error) {
	var parent models.Comment
	if err := s.first(ctx, &parent, parentID, "Parent comment not found"); err != nil {
		return nil, err
	}
	return s.insertComment(ctx, &models.Comment{
		Content:  content,
		PostID:   parent.PostID,
		ParentID: &parent.ID,
		OwnerID:  ownerID,
	})
}

func (s *Store) insertComment(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *Store) UpdateComment(ctx context.Context, id int, patch models.CommentPatch, callerID int) (*models.Comment, error) {
	c, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(c.OwnerID, callerID, commentForbidden); err != nil {
		return nil, err
	}

	if patch.Content != nil {
		c.Content = *patch.Content
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error; err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes the comment. Its replies, and their replies, are
// removed by the parent_id cascade.
func (s *Store) DeleteComment(ctx context.Context, id, callerID int) error {
	c, err := s.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeOwner(c.OwnerID, callerID, commentForbidden); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Comment{}, c.ID).Error; err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// GetCommentWithReplies loads the comment and its direct replies. Deeper
// replies are left out.
func (s *Store) GetCommentWithReplies(ctx context.Context, id int) (*models.Comment, error) {
	c, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	var replies []models.Comment
	if err := s.db.WithContext(ctx).Where("parent_id = ?", c.ID).Order("id ASC").Find(&replies).Error; err != nil {
		return nil, fmt.Errorf("load replies: %w", err)
	}
	c.Replies = replies
	return c, nil
}

func (s *Store) ListComments(ctx context.Context, page Page) ([]models.Comment, error) {
	var comments []models.Comment
	if err := page.apply(s.db.WithContext(ctx)).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *Store) ListCommentsByOwner(ctx context.Context, ownerID int, page Page) ([]models.Comment, error) {
	var comments []models.Comment
	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if err := page.apply(q).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments by owner: %w", err)
	}
	return comments, nil
}
