package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/threadboard/backend/internal/apperr"
	"github.com/emilythestrangee/threadboard/backend/internal/config"
	"github.com/emilythestrangee/threadboard/backend/internal/database"
	"github.com/emilythestrangee/threadboard/backend/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return openStore(t, config.DatabaseConfig{URL: "sqlite:file::memory:"})
}

func openStore(t *testing.T, cfg config.DatabaseConfig) *Store {
	t.Helper()
	svc, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	require.NoError(t, svc.Migrate())
	return New(svc.GetDB())
}

func mustUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")

	got, err := s.GetUser(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Username)
	assert.False(t, got.CreatedAt.IsZero())

	byEmail, err := s.FindUserByIdentifier(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, byEmail.ID)

	_, err = s.FindUserByIdentifier(ctx, "nobody")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = s.GetUser(ctx, 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	taken, err := s.UsernameTaken(ctx, "ann")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = s.EmailTaken(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	err = s.CreateUser(ctx, &models.User{Username: "ann2", Email: "ann@example.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestPostLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	bob := mustUser(t, s, "bob")

	p, err := s.CreatePost(ctx, "title", "content", ann.ID)
	require.NoError(t, err)
	assert.Equal(t, ann.ID, p.OwnerID)

	_, err = s.UpdatePost(ctx, p.ID, models.PostPatch{Title: strPtr("hijack")}, bob.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = s.UpdatePost(ctx, 12345, models.PostPatch{Title: strPtr("x")}, bob.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "missing post is reported before ownership")

	updated, err := s.UpdatePost(ctx, p.ID, models.PostPatch{Title: strPtr("new title")}, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "content", updated.Content, "absent fields stay untouched")

	reloaded, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", reloaded.Title)
	assert.Equal(t, "content", reloaded.Content)

	updated, err = s.UpdatePost(ctx, p.ID, models.PostPatch{Content: strPtr("")}, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "", updated.Content, "present empty field is applied")

	assert.True(t, errors.Is(s.DeletePost(ctx, p.ID, bob.ID), apperr.ErrForbidden))
	require.NoError(t, s.DeletePost(ctx, p.ID, ann.ID))

	_, err = s.GetPost(ctx, p.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(s.DeletePost(ctx, p.ID, ann.ID), apperr.ErrNotFound))
}

func TestCreateCommentValidatesReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	p, err := s.CreatePost(ctx, "t", "c", ann.ID)
	require.NoError(t, err)

	_, err = s.CreateComment(ctx, "hi", 999, nil, ann.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, "Post not found", apperr.Message(err, ""))

	_, err = s.CreateComment(ctx, "hi", p.ID, intPtr(999), ann.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, "Parent comment not found", apperr.Message(err, ""))

	c, err := s.CreateComment(ctx, "hi", p.ID, nil, ann.ID)
	require.NoError(t, err)
	assert.Nil(t, c.ParentID)
	assert.Equal(t, ann.ID, c.OwnerID)

	reply, err := s.CreateComment(ctx, "re", p.ID, &c.ID, ann.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, c.ID, *reply.ParentID)
}

func TestReplyMayReferenceParentOnAnotherPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	p1, err := s.CreatePost(ctx, "one", "c", ann.ID)
	require.NoError(t, err)
	p2, err := s.CreatePost(ctx, "two", "c", ann.ID)
	require.NoError(t, err)

	parent, err := s.CreateComment(ctx, "on p1", p1.ID, nil, ann.ID)
	require.NoError(t, err)

	reply, err := s.CreateComment(ctx, "on p2", p2.ID, &parent.ID, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, reply.PostID)
	assert.Equal(t, parent.ID, *reply.ParentID)
}

func TestCreateReplyInheritsPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	bob := mustUser(t, s, "bob")
	p, err := s.CreatePost(ctx, "t", "c", ann.ID)
	require.NoError(t, err)
	parent, err := s.CreateComment(ctx, "root", p.ID, nil, ann.ID)
	require.NoError(t, err)

	reply, err := s.CreateReply(ctx, parent.ID, "reply", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, reply.PostID)
	assert.Equal(t, parent.ID, *reply.ParentID)
	assert.Equal(t, bob.ID, reply.OwnerID)

	_, err = s.CreateReply(ctx, 999, "reply", bob.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

// thread builds root -> a -> a1 -> a1x and root -> b on one post.
func thread(t *testing.T, s *Store, ownerID int) (post *models.Post, root, a, a1, a1x, b *models.Comment) {
	t.Helper()
	ctx := context.Background()
	var err error
	post, err = s.CreatePost(ctx, "t", "c", ownerID)
	require.NoError(t, err)
	root, err = s.CreateComment(ctx, "root", post.ID, nil, ownerID)
	require.NoError(t, err)
	a, err = s.CreateReply(ctx, root.ID, "a", ownerID)
	require.NoError(t, err)
	a1, err = s.CreateReply(ctx, a.ID, "a1", ownerID)
	require.NoError(t, err)
	a1x, err = s.CreateReply(ctx, a1.ID, "a1x", ownerID)
	require.NoError(t, err)
	b, err = s.CreateReply(ctx, root.ID, "b", ownerID)
	require.NoError(t, err)
	return
}

func TestGetCommentWithRepliesIsOneLevelDeep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	_, root, a, _, _, b := thread(t, s, ann.ID)

	got, err := s.GetCommentWithReplies(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 2)
	assert.Equal(t, a.ID, got.Replies[0].ID)
	assert.Equal(t, b.ID, got.Replies[1].ID)
	for _, r := range got.Replies {
		assert.Empty(t, r.Replies)
	}

	_, err = s.GetCommentWithReplies(ctx, 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteCommentCascadesToSubtree(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	bob := mustUser(t, s, "bob")
	post, root, a, a1, a1x, b := thread(t, s, ann.ID)

	assert.True(t, errors.Is(s.DeleteComment(ctx, a.ID, bob.ID), apperr.ErrForbidden))
	require.NoError(t, s.DeleteComment(ctx, a.ID, ann.ID))

	for _, gone := range []*models.Comment{a, a1, a1x} {
		_, err := s.GetComment(ctx, gone.ID)
		assert.True(t, errors.Is(err, apperr.ErrNotFound), "comment %q should be gone", gone.Content)
	}
	for _, kept := range []*models.Comment{root, b} {
		_, err := s.GetComment(ctx, kept.ID)
		assert.NoError(t, err, "comment %q should survive", kept.Content)
	}

	n, err := s.CommentCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestDeletePostCascadesToComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	post, root, _, _, a1x, _ := thread(t, s, ann.ID)

	require.NoError(t, s.DeletePost(ctx, post.ID, ann.ID))

	for _, id := range []int{root.ID, a1x.ID} {
		_, err := s.GetComment(ctx, id)
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	}
	all, err := s.ListComments(ctx, Page{Limit: DefaultLimit})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateComment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	bob := mustUser(t, s, "bob")
	p, err := s.CreatePost(ctx, "t", "c", ann.ID)
	require.NoError(t, err)
	c, err := s.CreateComment(ctx, "before", p.ID, nil, ann.ID)
	require.NoError(t, err)

	_, err = s.UpdateComment(ctx, 999, models.CommentPatch{Content: strPtr("x")}, bob.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = s.UpdateComment(ctx, c.ID, models.CommentPatch{Content: strPtr("x")}, bob.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	same, err := s.UpdateComment(ctx, c.ID, models.CommentPatch{}, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", same.Content)

	time.Sleep(5 * time.Millisecond)
	after, err := s.UpdateComment(ctx, c.ID, models.CommentPatch{Content: strPtr("after")}, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", after.Content)
	assert.True(t, after.UpdatedAt.After(c.CreatedAt))
}

func TestListingPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ann := mustUser(t, s, "ann")
	bob := mustUser(t, s, "bob")

	var annPosts []int
	for i := 0; i < 5; i++ {
		p, err := s.CreatePost(ctx, "ann", "c", ann.ID)
		require.NoError(t, err)
		annPosts = append(annPosts, p.ID)
		_, err = s.CreatePost(ctx, "bob", "c", bob.ID)
		require.NoError(t, err)
	}

	all, err := s.ListPosts(ctx, Page{Limit: DefaultLimit})
	require.NoError(t, err)
	assert.Len(t, all, 10)

	window, err := s.ListPosts(ctx, Page{Skip: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, all[2].ID, window[0].ID)
	assert.Equal(t, all[4].ID, window[2].ID)

	none, err := s.ListPosts(ctx, Page{Skip: 0, Limit: 0})
	require.NoError(t, err)
	assert.Empty(t, none)

	mine, err := s.ListPostsByOwner(ctx, ann.ID, Page{Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, annPosts[1:3], PostIDs(mine))

	for _, id := range annPosts[:2] {
		_, err := s.CreateComment(ctx, "c", id, nil, bob.ID)
		require.NoError(t, err)
	}
	_, err = s.CreateComment(ctx, "c", annPosts[0], nil, ann.ID)
	require.NoError(t, err)

	comments, err := s.ListComments(ctx, Page{Skip: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	bobs, err := s.ListCommentsByOwner(ctx, bob.ID, Page{Limit: DefaultLimit})
	require.NoError(t, err)
	assert.Len(t, bobs, 2)

	counts, err := s.CommentCounts(ctx, annPosts...)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[annPosts[0]])
	assert.Equal(t, int64(1), counts[annPosts[1]])
	assert.Zero(t, counts[annPosts[2]])
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Skip: 0, Limit: DefaultLimit}, Page{Skip: -4, Limit: -1}.normalize())
	assert.Equal(t, Page{Skip: 3, Limit: MaxLimit}, Page{Skip: 3, Limit: 50000}.normalize())
	assert.Equal(t, Page{Skip: 3, Limit: 0}, Page{Skip: 3, Limit: 0}.normalize())
}
