// internal/workers/stats/player-stats/models.go
package playerstats

import "gridiron-workers/internal/models"

type Input struct {
	Entity models.ResolvedEntity `json:"entity"`
	Season int                   `json:"season,omitempty"` // 0 means current season
	Week   *int                  `json:"week,omitempty"`   // nil means season totals
}

type Output struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Season     int       `json:"season"`
	Week       *int      `json:"week,omitempty"`
	Stats      StatsLine `json:"stats"`
}

// StatsLine carries the fantasy-relevant counting stats for one player over
// a week or a season. Zero values are legitimate stat lines.
type StatsLine struct {
	GamesPlayed      int     `json:"gamesPlayed"`
	PassingYards     int     `json:"passingYards"`
	PassingTDs       int     `json:"passingTds"`
	Interceptions    int     `json:"interceptions"`
	RushingYards     int     `json:"rushingYards"`
	RushingTDs       int     `json:"rushingTds"`
	Receptions       int     `json:"receptions"`
	ReceivingYards   int     `json:"receivingYards"`
	ReceivingTDs     int     `json:"receivingTds"`
	FantasyPointsPPR float64 `json:"fantasyPointsPpr"`
	FantasyPointsStd float64 `json:"fantasyPointsStd"`
}

type statsResponse struct {
	PlayerID string    `json:"playerId"`
	Season   int       `json:"season"`
	Week     *int      `json:"week"`
	Stats    StatsLine `json:"stats"`
}
