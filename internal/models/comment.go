package models

import "time"

// Comment belongs to a post and optionally replies to another comment.
// Removing a comment removes its whole reply subtree through the parent_id
// foreign key.
type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	OwnerID   int       `gorm:"not null;index" json:"owner_id"`
	PostID    int       `gorm:"not null;index" json:"post_id"`
	ParentID  *int      `gorm:"index" json:"parent_id"`
	Replies   []Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	PostID   int    `json:"post_id" binding:"required"`
	ParentID *int   `json:"parent_id,omitempty"`
}

type CreateReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentPatch struct {
	Content *string `json:"content"`
}
