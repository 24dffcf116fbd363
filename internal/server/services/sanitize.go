package services

import (
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/microcosm-cc/bluemonday"
)

// newBodyPolicy is the allow-list applied to stored post bodies.
func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "h2", "b", "i", "u", "s", "p", "ul", "ol", "li", "blockquote")
	p.AllowAttrs("href", "name", "target").OnElements("a")
	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("class").OnElements("li")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https", "data")
	p.AllowDataURIImages()
	return p
}

// preview strips every tag from body and shortens what is left. Entities stay
// escaped.
func preview(strict *bluemonday.Policy, body string) string {
	return models.Shorten(strict.Sanitize(body))
}
