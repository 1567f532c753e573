// internal/models/news.go
package models

import "time"

// NewsArticle is one raw article as delivered by a source fetch.
type NewsArticle struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	SourceName  string     `json:"sourceName"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	BodySnippet string     `json:"bodySnippet,omitempty"`
}

// ScoredArticle is an article with its computed relevance. IsDuplicateOf
// holds the URL of the retained copy when this article was suppressed as a
// near-duplicate; duplicates stay in the output for auditability.
type ScoredArticle struct {
	Article        NewsArticle `json:"article"`
	RelevanceScore float64     `json:"relevanceScore"`
	IsDuplicateOf  string      `json:"isDuplicateOf,omitempty"`
}
