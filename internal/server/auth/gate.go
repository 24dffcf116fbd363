package auth

import (
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// RequireAuthenticated returns the identity of s or common.ErrorUnauthorized.
func RequireAuthenticated(s Session) (models.Identity, error) {
	id, ok := s.Identity()
	if !ok {
		return models.Identity{}, common.ErrorUnauthorized
	}
	return id, nil
}

// RequireOwner fails with common.ErrorForbidden unless id owns the resource
// whose owner is ownerID. The resource must already be loaded.
func RequireOwner(ownerID string, id models.Identity) error {
	if ownerID == "" || ownerID != id.ID {
		return common.ErrorForbidden
	}
	return nil
}
