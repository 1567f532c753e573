// internal/workers/conversation/resolve-entity/models.go
package resolveentity

import "gridiron-workers/internal/models"

type Input struct {
	Query models.Query `json:"query"`
}

type Output struct {
	Entity models.ResolvedEntity `json:"entity"`
}
