// internal/news/scorer.go
package news

import (
	"math"
	"sort"
	"strings"
	"time"

	"gridiron-workers/internal/models"
	"gridiron-workers/internal/nlu"
)

// ScorerConfig carries the relevance-scoring knobs. Source weights are an
// operational tuning surface, not code.
type ScorerConfig struct {
	TitleWeight     float64
	BodyWeight      float64
	SourceWeights   map[string]float64 // default 1.0 for unlisted sources
	AcceptThreshold float64
	DedupThreshold  float64
	RecencyHalfLife time.Duration
	SourcePriority  []string // tie-break order, first is highest
}

// MentionTermsForTeam returns the normalized name variants counted as
// mentions of a team: full name, nickname, abbreviation, declared aliases.
func MentionTermsForTeam(t models.Team) []string {
	raw := []string{t.FullName, t.Nickname, t.City + " " + t.Nickname, t.Abbreviation}
	raw = append(raw, t.Aliases...)
	return normalizeTerms(raw)
}

// MentionTermsForPlayer returns the variants counted as mentions of a
// player: full name, surname, declared aliases, and the team nickname so
// team-context coverage still registers.
func MentionTermsForPlayer(p models.Player, team *models.Team) []string {
	raw := []string{p.FullName}
	if fields := strings.Fields(p.FullName); len(fields) >= 2 {
		raw = append(raw, fields[len(fields)-1])
	}
	raw = append(raw, p.Aliases...)
	if team != nil {
		raw = append(raw, team.Nickname)
	}
	return normalizeTerms(raw)
}

func normalizeTerms(raw []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		norm := nlu.NormalizePhrase(r)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}

// Score computes relevance for each article, drops everything under the
// acceptance threshold, flags near-duplicate titles, and orders the result
// score-descending with recency and source-priority tie-breaks.
//
// An empty or fully-filtered batch returns an empty slice, never an error:
// "no relevant news" is a normal outcome.
func Score(terms []string, articles []models.NewsArticle, cfg ScorerConfig) []models.ScoredArticle {
	now := time.Now().UTC()

	accepted := make([]models.ScoredArticle, 0, len(articles))
	for _, a := range articles {
		score := relevance(terms, a, cfg, now)
		if score < cfg.AcceptThreshold {
			continue
		}
		accepted = append(accepted, models.ScoredArticle{Article: a, RelevanceScore: score})
	}

	sortScored(accepted, cfg)
	flagDuplicates(accepted, cfg.DedupThreshold)
	return accepted
}

func relevance(terms []string, a models.NewsArticle, cfg ScorerConfig, now time.Time) float64 {
	title := padded(nlu.NormalizePhrase(a.Title))
	body := padded(nlu.NormalizePhrase(a.BodySnippet))

	mentions := 0.0
	for _, term := range terms {
		needle := " " + term + " "
		mentions += float64(strings.Count(title, needle)) * cfg.TitleWeight
		mentions += float64(strings.Count(body, needle)) * cfg.BodyWeight
	}
	if mentions == 0 {
		return 0
	}

	score := mentions * sourceWeight(cfg, a.SourceName)

	// Recency boosts a mention-backed score; it never rescues an article
	// that does not mention the entity, and absent timestamps contribute
	// nothing rather than penalizing.
	if a.PublishedAt != nil && cfg.RecencyHalfLife > 0 {
		age := now.Sub(*a.PublishedAt)
		if age < 0 {
			age = 0
		}
		decay := math.Pow(0.5, age.Hours()/cfg.RecencyHalfLife.Hours())
		score *= 1.0 + decay
	}
	return score
}

func sourceWeight(cfg ScorerConfig, source string) float64 {
	if w, ok := cfg.SourceWeights[source]; ok && w > 0 {
		return w
	}
	return 1.0
}

func sortScored(scored []models.ScoredArticle, cfg ScorerConfig) {
	priority := make(map[string]int, len(cfg.SourcePriority))
	for i, s := range cfg.SourcePriority {
		priority[s] = i
	}
	rank := func(source string) int {
		if r, ok := priority[source]; ok {
			return r
		}
		return len(cfg.SourcePriority)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		at, bt := publishedOrZero(a.Article), publishedOrZero(b.Article)
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return rank(a.Article.SourceName) < rank(b.Article.SourceName)
	})
}

// flagDuplicates walks the ranked list and marks any article whose title is
// near-identical to an earlier (higher-ranked) survivor. Because the list is
// already ordered, the highest-scoring copy wins regardless of input order,
// and suppressed copies stay in the output with IsDuplicateOf set for
// auditability.
func flagDuplicates(scored []models.ScoredArticle, threshold float64) {
	type survivor struct {
		tokens []string
		url    string
	}
	var survivors []survivor

	for i := range scored {
		tokens := strings.Fields(nlu.NormalizePhrase(scored[i].Article.Title))
		dup := ""
		for _, s := range survivors {
			if TitleSimilarity(tokens, s.tokens) >= threshold {
				dup = s.url
				break
			}
		}
		if dup != "" {
			scored[i].IsDuplicateOf = dup
			continue
		}
		survivors = append(survivors, survivor{tokens: tokens, url: scored[i].Article.URL})
	}
}

// Per-token match threshold for title comparison, same fuzzy mechanism the
// entity resolver uses for typo tolerance.
const titleTokenMatchThreshold = 0.8

// TitleSimilarity is the overlap coefficient between two token sets, with
// tokens compared by Levenshtein ratio so wire-service headline variants
// ("Packers clinch division" vs "Green Bay Packers clinch NFC North") still
// register. The shorter title dominates the denominator: a headline wholly
// contained in a longer rewrite is the duplicate case this exists to catch.
func TitleSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	short, long := a, b
	if len(b) < len(a) {
		short, long = b, a
	}

	used := make([]bool, len(long))
	matched := 0
	for _, st := range short {
		for j, lt := range long {
			if used[j] {
				continue
			}
			if st == lt || nlu.SimilarityRatio(st, lt) >= titleTokenMatchThreshold {
				used[j] = true
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(short))
}

func publishedOrZero(a models.NewsArticle) time.Time {
	if a.PublishedAt == nil {
		return time.Time{}
	}
	return *a.PublishedAt
}

func padded(s string) string {
	if s == "" {
		return ""
	}
	return " " + s + " "
}
