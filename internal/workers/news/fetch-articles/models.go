// internal/workers/news/fetch-articles/models.go
package fetcharticles

import (
	"time"

	"gridiron-workers/internal/models"
)

type Input struct {
	QueryID string `json:"queryId,omitempty"`
}

type Output struct {
	Articles  []models.NewsArticle `json:"articles"`
	FetchedAt time.Time            `json:"fetchedAt"`
}
