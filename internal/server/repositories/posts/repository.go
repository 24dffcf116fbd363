// Package posts stores blog posts and their ordered tags. Listings are
// newest first; a malformed id behaves like a missing one.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter, offset, limit int) ([]*models.Post, error)
	Count(ctx context.Context, filter models.PostFilter) (int, error)
	Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}
