package models

import "time"

// Response shapes returned by the API. Build them through the To* helpers so
// derived fields are always filled in and secrets never leak.

type UserResponse struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}

type PostResponse struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	OwnerID      int       `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CommentCount int64     `json:"comment_count"`
}

type CommentResponse struct {
	ID        int               `json:"id"`
	Content   string            `json:"content"`
	OwnerID   int               `json:"owner_id"`
	PostID    int               `json:"post_id"`
	ParentID  *int              `json:"parent_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Replies   []CommentResponse `json:"replies"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}

func ToPostResponse(p *Post, commentCount int64) PostResponse {
	return PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		OwnerID:      p.OwnerID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		CommentCount: commentCount,
	}
}

// ToPostResponses looks each post up in counts; missing entries mean zero.
func ToPostResponses(posts []Post, counts map[int]int64) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostResponse(&posts[i], counts[posts[i].ID]))
	}
	return out
}

// ToCommentResponse projects c and at most one level of its loaded replies.
// Replies of replies are never included.
func ToCommentResponse(c *Comment) CommentResponse {
	out := commentFields(c)
	for i := range c.Replies {
		out.Replies = append(out.Replies, commentFields(&c.Replies[i]))
	}
	return out
}

func ToCommentResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, commentFields(&comments[i]))
	}
	return out
}

func commentFields(c *Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		OwnerID:   c.OwnerID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Replies:   []CommentResponse{},
	}
}
