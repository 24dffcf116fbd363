// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and issuing session tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
)

var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9]{3,20}$`)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials
// - IssueToken: mint a session token for a user
type UserService struct {
	users      users.Repository
	tokens     *auth.TokenIssuer
	bcryptCost int
	dummy      *models.User
}

// NewUserService constructs a UserService. The dummy hash is compared against
// when the user does not exist, so unknown names cost as much as wrong
// passwords.
func NewUserService(repo users.Repository, tokens *auth.TokenIssuer, bcryptCost int) (*UserService, error) {
	if bcryptCost == 0 {
		bcryptCost = auth.DefaultBcryptCost
	}
	dummy := &models.User{UserName: "dummy"}
	if err := auth.SetPassword(dummy, "dummy-password", bcryptCost); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorConfig, err)
	}
	return &UserService{users: repo, tokens: tokens, bcryptCost: bcryptCost, dummy: dummy}, nil
}

// ValidateCredentials checks the shape of a username/password pair.
func ValidateCredentials(userName, password string) error {
	if !userNamePattern.MatchString(userName) {
		return fmt.Errorf("%w: username must be 3-20 letters or digits", common.ErrorValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password is longer than %d bytes", common.ErrorValidation, maxPasswordBytes)
	}
	return nil
}

// Register creates a new user. A taken username yields common.ErrorAlreadyExists,
// both from the pre-check and from the store's unique index.
func (s *UserService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	if err := ValidateCredentials(userName, password); err != nil {
		return nil, err
	}

	_, err := s.users.GetByUsername(ctx, userName)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	user := &models.User{UserName: userName}
	if err := auth.SetPassword(user, password, s.bcryptCost); err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies credentials. Unknown users, wrong passwords and missing
// fields all yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (*models.User, error) {
	if userName == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.users.GetByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = auth.CheckPassword(s.dummy, password)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(user, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// IssueToken mints a session token for id.
func (s *UserService) IssueToken(id models.Identity) (string, time.Time, error) {
	return s.tokens.Issue(id)
}

// Tokens exposes the issuer, for session resolution.
func (s *UserService) Tokens() *auth.TokenIssuer {
	return s.tokens
}
