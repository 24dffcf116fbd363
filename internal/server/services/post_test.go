package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = models.Identity{ID: "u-alice", UserName: "alice"}

// tickingClock advances one minute on every call.
func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newPostService() *PostService {
	return NewPostService(posts.NewMemoryRepository()).WithClock(tickingClock())
}

func TestWrite_SanitizesBodyAndSetsOwner(t *testing.T) {
	s := newPostService()

	p, err := s.Write(context.Background(), alice, PostInput{
		Title: "Hello",
		Body:  `<p onclick="x()">hi</p><script>alert(1)</script><a href="javascript:alert(1)">bad</a>`,
		Tags:  []string{"go"},
	})
	require.NoError(t, err)
	assert.Equal(t, alice, p.Owner)
	assert.Equal(t, "<p>hi</p>bad", p.Body)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC), p.PublishedDate)
}

func TestWrite_KeepsAllowedMarkup(t *testing.T) {
	s := newPostService()

	body := `<h1>T</h1><ul><li class="x">one</li></ul><a href="http://example.com" target="_blank">l</a>`
	p, err := s.Write(context.Background(), alice, PostInput{Title: "t", Body: body, Tags: []string{}})
	require.NoError(t, err)
	assert.Contains(t, p.Body, `<h1>T</h1>`)
	assert.Contains(t, p.Body, `<li class="x">one</li>`)
	assert.Contains(t, p.Body, `href="http://example.com"`)
}

func TestWrite_Validation(t *testing.T) {
	s := newPostService()

	for _, in := range []PostInput{
		{Title: "", Body: "b"},
		{Title: "t", Body: " "},
	} {
		_, err := s.Write(context.Background(), alice, in)
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
}

func TestWrite_NilTagsStoredEmpty(t *testing.T) {
	s := newPostService()

	p, err := s.Write(context.Background(), alice, PostInput{Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
}

func TestList_PagingAndLastPage(t *testing.T) {
	s := newPostService()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := s.Write(ctx, alice, PostInput{Title: fmt.Sprintf("post %d", i), Body: "b", Tags: []string{"go"}})
		require.NoError(t, err)
	}

	page1, err := s.List(ctx, 1, models.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, page1.Posts, 10)
	assert.Equal(t, 3, page1.LastPage)
	assert.Equal(t, "post 24", page1.Posts[0].Title)

	page3, err := s.List(ctx, 3, models.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, page3.Posts, 5)
	assert.Equal(t, "post 0", page3.Posts[4].Title)

	page4, err := s.List(ctx, 4, models.PostFilter{})
	require.NoError(t, err)
	assert.Empty(t, page4.Posts)
	assert.Equal(t, 3, page4.LastPage)

	none, err := s.List(ctx, 1, models.PostFilter{Tag: "rust"})
	require.NoError(t, err)
	assert.Empty(t, none.Posts)
	assert.Equal(t, 0, none.LastPage)
}

func TestList_InvalidPage(t *testing.T) {
	s := newPostService()
	for _, page := range []int{0, -1} {
		_, err := s.List(context.Background(), page, models.PostFilter{})
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
}

func TestList_BodyIsPlainPreview(t *testing.T) {
	s := newPostService()
	ctx := context.Background()

	long := "<p>" + strings.Repeat("가", 250) + "</p>"
	_, err := s.Write(ctx, alice, PostInput{Title: "long", Body: long, Tags: []string{}})
	require.NoError(t, err)
	_, err = s.Write(ctx, alice, PostInput{Title: "short", Body: "<b>bold</b> text", Tags: []string{}})
	require.NoError(t, err)

	page, err := s.List(ctx, 1, models.PostFilter{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)

	assert.Equal(t, "bold text", page.Posts[0].Body)
	assert.Equal(t, strings.Repeat("가", 200)+"...", page.Posts[1].Body)

	full, err := s.Get(ctx, page.Posts[1].ID)
	require.NoError(t, err)
	assert.Equal(t, long, full.Body)
}

func TestUpdate(t *testing.T) {
	s := newPostService()
	ctx := context.Background()

	p, err := s.Write(ctx, alice, PostInput{Title: "t", Body: "b", Tags: []string{"go"}})
	require.NoError(t, err)

	body := `<p>new</p><img src="http://x/y.png" onerror="x()">`
	got, err := s.Update(ctx, p.ID, models.PostPatch{Body: &body})
	require.NoError(t, err)
	assert.Equal(t, `<p>new</p><img src="http://x/y.png">`, got.Body)
	assert.Equal(t, "t", got.Title)
	assert.Equal(t, []string{"go"}, got.Tags)
	assert.Equal(t, alice, got.Owner)

	empty := " "
	_, err = s.Update(ctx, p.ID, models.PostPatch{Title: &empty})
	assert.ErrorIs(t, err, common.ErrorValidation)

	for _, blank := range []string{"", " \n\t"} {
		_, err = s.Update(ctx, p.ID, models.PostPatch{Body: &blank})
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
	kept, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, `<p>new</p><img src="http://x/y.png">`, kept.Body)

	_, err = s.Update(ctx, "missing", models.PostPatch{Body: &body})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetAndRemove(t *testing.T) {
	s := newPostService()
	ctx := context.Background()

	p, err := s.Write(ctx, alice, PostInput{Title: "t", Body: "b", Tags: []string{}})
	require.NoError(t, err)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	require.NoError(t, s.Remove(ctx, p.ID))
	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Remove(ctx, p.ID), common.ErrorNotFound)
}
