package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/threadboard/backend/internal/auth"
	"github.com/emilythestrangee/threadboard/backend/internal/models"
)

const postForbidden = "Not authorized to modify this post"

func (s *Store) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var p models.Post
	if err := s.first(ctx, &p, id, "Post not found"); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost stores a post owned by ownerID, which is always the
// authenticated caller.
func (s *Store) CreatePost(ctx context.Context, title, content string, ownerID int) (*models.Post, error) {
	p := &models.Post{Title: title, Content: content, OwnerID: ownerID}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// UpdatePost applies the non-nil fields of patch. Concurrent updates are last
// write wins.
func (s *Store) UpdatePost(ctx context.Context, id int, patch models.PostPatch, callerID int) (*models.Post, error) {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(p.OwnerID, callerID, postForbidden); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// DeletePost removes the post; its comments go with it via ON DELETE CASCADE.
func (s *Store) DeletePost(ctx context.Context, id, callerID int) error {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeOwner(p.OwnerID, callerID, postForbidden); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Post{}, p.ID).Error; err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *Store) ListPosts(ctx context.Context, page Page) ([]models.Post, error) {
	var posts []models.Post
	if err := page.apply(s.db.WithContext(ctx)).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *Store) ListPostsByOwner(ctx context.Context, ownerID int, page Page) ([]models.Post, error) {
	var posts []models.Post
	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if err := page.apply(q).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts by owner: %w", err)
	}
	return posts, nil
}

// CommentCounts returns the number of comments attached to each post,
// replies included. Posts without comments are absent from the map.
func (s *Store) CommentCounts(ctx context.Context, postIDs ...int) (map[int]int64, error) {
	counts := make(map[int]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID int
		Count  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	for _, r := range rows {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}

// CommentCount is CommentCounts for a single post.
func (s *Store) CommentCount(ctx context.Context, postID int) (int64, error) {
	counts, err := s.CommentCounts(ctx, postID)
	if err != nil {
		return 0, err
	}
	return counts[postID], nil
}

// PostIDs collects the ids of posts, in order.
func PostIDs(posts []models.Post) []int {
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
