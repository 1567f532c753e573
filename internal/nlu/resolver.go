// internal/nlu/resolver.go
package nlu

import (
	"fmt"
	"sort"

	"gridiron-workers/internal/models"
)

// Catalog is the read-only alias index the resolver consults. A snapshot
// never changes under an in-flight resolution; reloads swap wholesale.
type Catalog interface {
	// LookupAlias resolves a normalized phrase through the unique alias
	// index. Collisions across entities are rejected at load time, so a hit
	// is always unambiguous.
	LookupAlias(phrase string) (AliasRef, bool)
	// LookupCandidates additionally consults derived indices that may
	// legitimately hold several entities for one phrase (shared player
	// surnames), which is what feeds hint disambiguation.
	LookupCandidates(phrase string) []AliasRef
	// AliasRefs returns every alias entry, for the fuzzy fallback scan.
	AliasRefs() []AliasRef
	TeamByID(id string) (models.Team, bool)
	PlayerByID(id string) (models.Player, bool)
}

// AliasRef ties one normalized alias string to its canonical entity.
type AliasRef struct {
	Alias string
	Type  models.EntityType
	ID    string
}

// AmbiguousEntityError carries the ranked candidate list so the caller can
// drive a clarification dialogue. It is an expected outcome, not a fault.
type AmbiguousEntityError struct {
	Phrase     string
	Candidates []string
}

func (e *AmbiguousEntityError) Error() string {
	return fmt.Sprintf("ambiguous entity %q: %d candidates", e.Phrase, len(e.Candidates))
}

// NotFoundError means nothing in the catalog cleared the fuzzy threshold.
type NotFoundError struct {
	Phrase string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no entity matches %q", e.Phrase)
}

// ResolverConfig carries the resolution tuning knobs.
type ResolverConfig struct {
	// FuzzyThreshold is the minimum similarity ratio for the typo fallback.
	FuzzyThreshold float64
}

// Confidence for a match that needed hint disambiguation: above any fuzzy
// score, below an unambiguous exact hit.
const hintedConfidence = 0.9

type candidate struct {
	ref   AliasRef
	score float64
}

// Resolve maps subject tokens to a canonical Team or Player.
//
// Strictly ordered: exact alias match (widest token span first), then
// hint-assisted disambiguation when the exact stage is ambiguous, then a
// Levenshtein-ratio fuzzy fallback over the whole candidate phrase. Pure
// function of (tokens, hints, catalog snapshot): idempotent, safe to retry.
func Resolve(subject []string, hints []models.Hint, cat Catalog, cfg ResolverConfig) (*models.ResolvedEntity, error) {
	phrase := joinTokens(subject)
	if phrase == "" {
		return nil, &NotFoundError{Phrase: phrase}
	}

	// Step 1: exact match. Widest n-gram wins so "josh allen" beats the
	// embedded "bills" hint token in "josh allen qb bills".
	exact := exactCandidates(subject, cat)
	if len(exact) == 1 {
		return resolved(exact[0].ref, 1.0, models.MatchExact, nil, cat), nil
	}
	if len(exact) > 1 {
		// Step 2: hint-assisted disambiguation.
		survivors := filterByHints(exact, hints, cat)
		if len(survivors) == 1 {
			return resolved(survivors[0].ref, hintedConfidence, models.MatchHinted, nil, cat), nil
		}
		if len(survivors) == 0 {
			survivors = exact // hints eliminated everyone; report the originals
		}
		return nil, &AmbiguousEntityError{Phrase: phrase, Candidates: candidateIDs(survivors)}
	}

	// Step 3: fuzzy fallback over the full candidate phrase.
	fuzzy := fuzzyCandidates(phrase, cat, cfg.FuzzyThreshold)
	if len(fuzzy) == 0 {
		return nil, &NotFoundError{Phrase: phrase}
	}
	if len(hints) > 0 {
		if survivors := filterByHints(fuzzy, hints, cat); len(survivors) > 0 {
			fuzzy = survivors
		}
	}

	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].score > fuzzy[j].score })
	if len(fuzzy) > 1 && fuzzy[0].score == fuzzy[1].score {
		tied := []candidate{}
		for _, c := range fuzzy {
			if c.score == fuzzy[0].score {
				tied = append(tied, c)
			}
		}
		return nil, &AmbiguousEntityError{Phrase: phrase, Candidates: candidateIDs(tied)}
	}

	best := fuzzy[0]
	var runnersUp []string
	for _, c := range fuzzy[1:] {
		runnersUp = append(runnersUp, c.ref.ID)
	}
	return resolved(best.ref, best.score, models.MatchFuzzy, runnersUp, cat), nil
}

// exactCandidates scans token spans from widest to narrowest and returns all
// distinct entities hit at the first width that produces any hit.
func exactCandidates(subject []string, cat Catalog) []candidate {
	for width := len(subject); width >= 1; width-- {
		var hits []candidate
		seen := map[string]bool{}
		for i := 0; i+width <= len(subject); i++ {
			phrase := joinTokens(subject[i : i+width])
			for _, ref := range cat.LookupCandidates(phrase) {
				if seen[ref.ID] {
					continue
				}
				seen[ref.ID] = true
				hits = append(hits, candidate{ref: ref, score: 1.0})
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}
	return nil
}

// fuzzyCandidates scores the candidate phrase against every alias and keeps
// entities at or above the threshold, best alias per entity.
func fuzzyCandidates(phrase string, cat Catalog, threshold float64) []candidate {
	best := map[string]candidate{}
	for _, ref := range cat.AliasRefs() {
		score := SimilarityRatio(phrase, ref.Alias)
		if score < threshold {
			continue
		}
		if prev, ok := best[ref.ID]; !ok || score > prev.score {
			best[ref.ID] = candidate{ref: ref, score: score}
		}
	}

	out := make([]candidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	// Deterministic order before scoring sort so equal-score runs are stable.
	sort.Slice(out, func(i, j int) bool { return out[i].ref.ID < out[j].ref.ID })
	return out
}

// filterByHints applies the disambiguation rules: a POSITION hint must equal
// a player's position, a TEAM hint must equal a player's team id or the team
// candidate itself.
func filterByHints(cands []candidate, hints []models.Hint, cat Catalog) []candidate {
	if len(hints) == 0 {
		return cands
	}
	var out []candidate
	for _, c := range cands {
		if matchesHints(c.ref, hints, cat) {
			out = append(out, c)
		}
	}
	return out
}

func matchesHints(ref AliasRef, hints []models.Hint, cat Catalog) bool {
	for _, h := range hints {
		switch h.Kind {
		case models.HintPosition:
			if ref.Type != models.EntityPlayer {
				return false
			}
			p, ok := cat.PlayerByID(ref.ID)
			if !ok || string(p.Position) != h.Value {
				return false
			}
		case models.HintTeam:
			if ref.Type == models.EntityTeam {
				if ref.ID != h.Value {
					return false
				}
				continue
			}
			p, ok := cat.PlayerByID(ref.ID)
			if !ok || p.TeamID != h.Value {
				return false
			}
		}
	}
	return true
}

func candidateIDs(cands []candidate) []string {
	ids := make([]string, 0, len(cands))
	for _, c := range cands {
		ids = append(ids, c.ref.ID)
	}
	return ids
}

func resolved(ref AliasRef, confidence float64, method models.MatchMethod, runnersUp []string, cat Catalog) *models.ResolvedEntity {
	name := ref.Alias
	teamID := ""
	switch ref.Type {
	case models.EntityTeam:
		if t, ok := cat.TeamByID(ref.ID); ok {
			name = t.FullName
		}
	case models.EntityPlayer:
		if p, ok := cat.PlayerByID(ref.ID); ok {
			name = p.FullName
			teamID = p.TeamID
		}
	}
	return &models.ResolvedEntity{
		Type:                ref.Type,
		CanonicalID:         ref.ID,
		DisplayName:         name,
		TeamID:              teamID,
		Confidence:          confidence,
		MatchMethod:         method,
		AmbiguousCandidates: runnersUp,
	}
}
