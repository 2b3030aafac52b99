// Package store holds the persistence-backed operations on users, posts and
// comments. Every operation is a single fetch-then-check sequence: the first
// failing check wins and nothing is written.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emilythestrangee/threadboard/backend/internal/apperr"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page selects a window of a listing: Skip rows are dropped, then at most
// Limit rows are returned.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit < 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	p = p.normalize()
	return db.Order("id ASC").Offset(p.Skip).Limit(p.Limit)
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// first loads a row by primary key, mapping a missing row to NotFound with
// the given message.
func (s *Store) first(ctx context.Context, dest interface{}, id int, notFound string) error {
	err := s.db.WithContext(ctx).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFound)
	}
	return err
}
