// internal/models/entity.go
package models

// EntityType distinguishes the two kinds of canonical entities.
type EntityType string

const (
	EntityTeam   EntityType = "TEAM"
	EntityPlayer EntityType = "PLAYER"
)

// Position is the closed set of player position codes.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionP   Position = "P"
	PositionDEF Position = "DEF"
	PositionDE  Position = "DE"
	PositionDT  Position = "DT"
	PositionLB  Position = "LB"
	PositionCB  Position = "CB"
	PositionS   Position = "S"
	PositionOL  Position = "OL"
	PositionG   Position = "G"
	PositionT   Position = "T"
	PositionC   Position = "C"
)

// ValidPositions is the lookup set used by hint extraction and catalog validation.
var ValidPositions = map[Position]bool{
	PositionQB: true, PositionRB: true, PositionWR: true, PositionTE: true,
	PositionK: true, PositionP: true, PositionDEF: true, PositionDE: true,
	PositionDT: true, PositionLB: true, PositionCB: true, PositionS: true,
	PositionOL: true, PositionG: true, PositionT: true, PositionC: true,
}

// Team is a canonical team record. Immutable once loaded into a snapshot.
type Team struct {
	ID           string   `json:"id"`
	FullName     string   `json:"fullName"`
	City         string   `json:"city"`
	Nickname     string   `json:"nickname"`
	Abbreviation string   `json:"abbreviation"`
	Aliases      []string `json:"aliases"`
}

// Player is a canonical player record. TeamID is empty for free agents and
// may change between catalog snapshots, never within one.
type Player struct {
	ID       string   `json:"id"`
	FullName string   `json:"fullName"`
	Position Position `json:"position"`
	TeamID   string   `json:"teamId,omitempty"`
	Aliases  []string `json:"aliases"`
}
