// internal/workers/news/score-articles/models.go
package scorearticles

import "gridiron-workers/internal/models"

type Input struct {
	Entity   models.ResolvedEntity `json:"entity"`
	Articles []models.NewsArticle  `json:"articles"`
}

type Output struct {
	EntityID string                 `json:"entityId"`
	Articles []models.ScoredArticle `json:"scoredArticles"`
}
