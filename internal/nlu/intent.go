// internal/nlu/intent.go
package nlu

import "gridiron-workers/internal/models"

// AliasChecker reports whether a token (or phrase) matches any catalog alias.
// The classifier uses it to detect entity-only utterances ("Packers?") that
// carry no intent keyword but are still news-shaped queries.
type AliasChecker func(phrase string) bool

// Intent keyword sets, checked in priority order: schedule intents before the
// NEWS catch-all so a schedule query mentioning a team in passing is not
// misfiled as news.
var (
	nextGameKeywords = map[string]bool{
		"next": true, "upcoming": true, "tonight": true,
	}
	lastGameKeywords = map[string]bool{
		"last": true, "previous": true,
	}
	// "recent" and "yesterday" are news-shaped on their own ("recent news",
	// "yesterday's headlines") and only signal LAST_GAME next to a
	// game-context token.
	recencyKeywords = map[string]bool{
		"recent": true, "yesterday": true,
	}
	gameContextKeywords = map[string]bool{
		"game": true, "games": true, "play": true, "played": true,
		"playing": true, "schedule": true, "score": true, "scores": true,
		"result": true, "results": true, "matchup": true,
	}
	fantasyKeywords = map[string]bool{
		"fantasy": true, "ppr": true, "points": true, "pts": true,
		"stats": true, "projection": true, "projections": true,
	}
	newsKeywords = map[string]bool{
		"news": true, "headline": true, "headlines": true,
		"update": true, "updates": true, "article": true, "articles": true,
	}
)

// ClassifyIntent maps cleaned tokens to exactly one Intent. First matching
// rule in the fixed priority order wins. Empty token input and keyword-free
// non-entity input both yield UNKNOWN, which the caller surfaces as a
// clarification request.
func ClassifyIntent(tokens []string, isAlias AliasChecker) models.Intent {
	if len(tokens) == 0 {
		return models.IntentUnknown
	}

	for _, tok := range tokens {
		if nextGameKeywords[tok] {
			return models.IntentNextGame
		}
	}
	for _, tok := range tokens {
		if lastGameKeywords[tok] {
			return models.IntentLastGame
		}
	}
	if hasAny(tokens, recencyKeywords) && hasAny(tokens, gameContextKeywords) {
		return models.IntentLastGame
	}
	for _, tok := range tokens {
		if fantasyKeywords[tok] {
			return models.IntentFantasyStats
		}
	}
	for _, tok := range tokens {
		if newsKeywords[tok] {
			return models.IntentNews
		}
	}

	// No keyword at all: an utterance that names a catalog entity is treated
	// as a news-style query about that entity.
	if isAlias != nil {
		for width := 3; width >= 1; width-- {
			for i := 0; i+width <= len(tokens); i++ {
				if isAlias(joinTokens(tokens[i : i+width])) {
					return models.IntentNews
				}
			}
		}
	}

	return models.IntentUnknown
}

// SubjectTokens returns the ordered subsequence of cleaned tokens used for
// entity resolution: intent keywords and generic schedule/stat nouns are
// dropped, everything else (including hint tokens) is kept.
func SubjectTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if nextGameKeywords[tok] || lastGameKeywords[tok] || recencyKeywords[tok] ||
			fantasyKeywords[tok] || newsKeywords[tok] || subjectStopwords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

var subjectStopwords = map[string]bool{
	"game": true, "games": true, "match": true, "matchup": true,
	"play": true, "playing": true, "score": true, "season": true,
	"week": true, "schedule": true,
}

func hasAny(tokens []string, set map[string]bool) bool {
	for _, tok := range tokens {
		if set[tok] {
			return true
		}
	}
	return false
}

func joinTokens(tokens []string) string {
	n := 0
	for _, t := range tokens {
		n += len(t) + 1
	}
	b := make([]byte, 0, n)
	for i, t := range tokens {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, t...)
	}
	return string(b)
}
