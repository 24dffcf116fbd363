package posts

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/google/uuid"
)

type memoryPost struct {
	post models.Post
	seq  int64
}

// MemoryRepository is a process-local store used by tests and the
// memory:// DSN.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]*memoryPost
	seq   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[string]*memoryPost)}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = uuid.NewString()
	r.seq++
	r.posts[post.ID] = &memoryPost{post: *clonePost(post), seq: r.seq}
	return post, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clonePost(&p.post), nil
}

func matches(p *models.Post, filter models.PostFilter) bool {
	if filter.UserName != "" && p.Owner.UserName != filter.UserName {
		return false
	}
	if filter.Tag != "" && !slices.Contains(p.Tags, filter.Tag) {
		return false
	}
	return true
}

func (r *MemoryRepository) List(ctx context.Context, filter models.PostFilter, offset, limit int) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*memoryPost
	for _, p := range r.posts {
		if matches(&p.post, filter) {
			found = append(found, p)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if !a.post.PublishedDate.Equal(b.post.PublishedDate) {
			return a.post.PublishedDate.After(b.post.PublishedDate)
		}
		return a.seq > b.seq
	})

	if offset >= len(found) {
		return nil, nil
	}
	end := len(found)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	result := make([]*models.Post, 0, end-offset)
	for _, p := range found[offset:end] {
		result = append(result, clonePost(&p.post))
	}
	return result, nil
}

func (r *MemoryRepository) Count(ctx context.Context, filter models.PostFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.posts {
		if matches(&p.post, filter) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	patch.Apply(&p.post)
	return clonePost(&p.post), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	return nil
}
