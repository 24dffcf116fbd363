// Package users stores registered accounts. Every backend enforces username
// uniqueness and reports a duplicate as common.ErrorAlreadyExists.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
