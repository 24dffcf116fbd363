package models

import (
	"time"
	"unicode/utf8"
)

// Post is a blog entry. Owner is fixed at creation.
type Post struct {
	ID            string
	Title         string
	Body          string
	Tags          []string
	PublishedDate time.Time
	Owner         Identity
}

// PostFilter narrows a post listing. Empty fields do not filter.
type PostFilter struct {
	Tag      string
	UserName string
}

// PostPatch carries a partial update; nil fields are left unchanged.
type PostPatch struct {
	Title *string
	Body  *string
	Tags  []string
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Tags == nil
}

// Apply copies the set fields of p onto post.
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Body != nil {
		post.Body = *p.Body
	}
	if p.Tags != nil {
		post.Tags = append([]string{}, p.Tags...)
	}
}

// PostView is the public projection of a Post.
type PostView struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Tags          []string  `json:"tags"`
	PublishedDate time.Time `json:"publishedDate"`
	User          UserView  `json:"user"`
}

func NewPostView(p *Post) PostView {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostView{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		Tags:          tags,
		PublishedDate: p.PublishedDate,
		User:          UserView{ID: p.Owner.ID, UserName: p.Owner.UserName},
	}
}

// PreviewLength is the number of characters of body kept in list views.
const PreviewLength = 200

// Shorten keeps strings under PreviewLength runes as they are and cuts
// anything else to PreviewLength runes followed by "...".
func Shorten(s string) string {
	if utf8.RuneCountInString(s) < PreviewLength {
		return s
	}
	return string([]rune(s)[:PreviewLength]) + "..."
}
