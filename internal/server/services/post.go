package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/microcosm-cc/bluemonday"
)

// PostInput is the payload of a new post.
type PostInput struct {
	Title string
	Body  string
	Tags  []string
}

// PostPage is one page of a listing, with bodies already cut to previews.
type PostPage struct {
	Posts    []*models.Post
	LastPage int
}

// PostService implements post CRUD. Bodies are sanitized on every write;
// ownership is checked by the caller before Update and Remove.
type PostService struct {
	posts  posts.Repository
	body   *bluemonday.Policy
	strict *bluemonday.Policy
	now    func() time.Time
}

func NewPostService(repo posts.Repository) *PostService {
	return &PostService{
		posts:  repo,
		body:   newBodyPolicy(),
		strict: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
}

// WithClock replaces the time source used for publish dates.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// Write stores a new post owned by owner.
func (s *PostService) Write(ctx context.Context, owner models.Identity, in PostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", common.ErrorValidation)
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}

	post := &models.Post{
		Title:         in.Title,
		Body:          s.body.Sanitize(in.Body),
		Tags:          in.Tags,
		PublishedDate: s.now().UTC().Truncate(time.Millisecond),
		Owner:         owner,
	}
	return s.posts.Create(ctx, post)
}

// List returns page (1-based) of the posts matching filter, newest first.
func (s *PostService) List(ctx context.Context, page int, filter models.PostFilter) (*PostPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be a positive integer", common.ErrorValidation)
	}

	found, err := s.posts.List(ctx, filter, (page-1)*common.PostsPageSize, common.PostsPageSize)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, p := range found {
		p.Body = preview(s.strict, p.Body)
	}
	return &PostPage{
		Posts:    found,
		LastPage: (count + common.PostsPageSize - 1) / common.PostsPageSize,
	}, nil
}

// Get returns the post with id; a malformed id is common.ErrorNotFound.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Update applies a partial update. A new body is sanitized like on Write.
func (s *PostService) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if patch.Body != nil {
		if strings.TrimSpace(*patch.Body) == "" {
			return nil, fmt.Errorf("%w: body must not be empty", common.ErrorValidation)
		}
		clean := s.body.Sanitize(*patch.Body)
		patch.Body = &clean
	}
	return s.posts.Update(ctx, id, patch)
}

func (s *PostService) Remove(ctx context.Context, id string) error {
	return s.posts.Delete(ctx, id)
}
