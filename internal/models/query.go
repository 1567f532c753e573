// internal/models/query.go
package models

// Intent is the closed set of supported query intents.
type Intent string

const (
	IntentNextGame     Intent = "NEXT_GAME"
	IntentLastGame     Intent = "LAST_GAME"
	IntentFantasyStats Intent = "FANTASY_STATS"
	IntentNews         Intent = "NEWS"
	IntentUnknown      Intent = "UNKNOWN"
)

// HintKind distinguishes disambiguation cues.
type HintKind string

const (
	HintTeam     HintKind = "TEAM"
	HintPosition HintKind = "POSITION"
)

// Hint is a disambiguating cue extracted from the utterance. Value is a
// canonical team id for TEAM hints or a position code for POSITION hints.
type Hint struct {
	Kind        HintKind `json:"kind"`
	Value       string   `json:"value"`
	SourceToken string   `json:"sourceToken"`
}

// Query is the parsed form of one user turn. Immutable after construction;
// no cross-turn state is retained.
type Query struct {
	ID            string   `json:"queryId"`
	RawText       string   `json:"rawText"`
	CleanedTokens []string `json:"cleanedTokens"`
	Intent        Intent   `json:"intent"`
	Hints         []Hint   `json:"hints"`
	SubjectTokens []string `json:"subjectTokens"`
}

// MatchMethod records how an entity was resolved.
type MatchMethod string

const (
	MatchExact  MatchMethod = "EXACT"
	MatchHinted MatchMethod = "HINTED"
	MatchFuzzy  MatchMethod = "FUZZY"
)

// ResolvedEntity is the successful outcome of entity resolution.
// TeamID is set for players so downstream lookups skip a catalog round trip.
// AmbiguousCandidates lists runner-up ids and is empty for unambiguous matches.
type ResolvedEntity struct {
	Type                EntityType  `json:"type"`
	CanonicalID         string      `json:"canonicalId"`
	DisplayName         string      `json:"displayName"`
	TeamID              string      `json:"teamId,omitempty"`
	Confidence          float64     `json:"confidence"`
	MatchMethod         MatchMethod `json:"matchMethod"`
	AmbiguousCandidates []string    `json:"ambiguousCandidates,omitempty"`
}
