// internal/workers/conversation/parse-query/models.go
package parsequery

import "gridiron-workers/internal/models"

type Input struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversationId,omitempty"`
}

type Output struct {
	Query models.Query `json:"query"`
}
