// internal/workers/stats/lookup-game/models.go
package lookupgame

import (
	"time"

	"gridiron-workers/internal/models"
)

type Input struct {
	Entity models.ResolvedEntity `json:"entity"`
	Intent models.Intent         `json:"intent"` // NEXT_GAME or LAST_GAME
}

type Output struct {
	Found bool  `json:"found"`
	Game  *Game `json:"game,omitempty"`
}

// Game is one schedule entry, scores present only for completed games.
type Game struct {
	EventID   string    `json:"eventId"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	Kickoff   time.Time `json:"kickoff"`
	Venue     string    `json:"venue,omitempty"`
	Status    string    `json:"status"`
	HomeScore *int      `json:"homeScore,omitempty"`
	AwayScore *int      `json:"awayScore,omitempty"`
}

type scheduleResponse struct {
	Events []scheduleEvent `json:"events"`
}

type scheduleEvent struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	StartTime time.Time `json:"startTime"`
	Venue     string    `json:"venue"`
	Status    string    `json:"status"` // "scheduled", "in_progress", "final"
	HomeScore *int      `json:"homeScore"`
	AwayScore *int      `json:"awayScore"`
}
