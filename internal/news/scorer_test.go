// internal/news/scorer_test.go
package news

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron-workers/internal/models"
)

func testScorerConfig() ScorerConfig {
	return ScorerConfig{
		TitleWeight:     2.0,
		BodyWeight:      1.0,
		SourceWeights:   map[string]float64{"espn": 1.2, "google-news": 0.9},
		AcceptThreshold: 1.0,
		DedupThreshold:  0.6,
		RecencyHalfLife: 48 * time.Hour,
		SourcePriority:  []string{"espn", "pft", "yahoo", "google-news"},
	}
}

func packersTerms() []string {
	return MentionTermsForTeam(models.Team{
		ID: "gb", FullName: "Green Bay Packers", City: "Green Bay",
		Nickname: "Packers", Abbreviation: "GB", Aliases: []string{"pack"},
	})
}

func article(title, url, source string, age time.Duration) models.NewsArticle {
	published := time.Now().UTC().Add(-age)
	return models.NewsArticle{
		Title:       title,
		URL:         url,
		SourceName:  source,
		PublishedAt: &published,
	}
}

func TestMentionTermsForTeam(t *testing.T) {
	terms := packersTerms()

	assert.Contains(t, terms, "green bay packers")
	assert.Contains(t, terms, "packers")
	assert.Contains(t, terms, "gb")
	assert.Contains(t, terms, "pack")
	// city+nickname collapses into the full name, so no separate entry
	assert.Len(t, terms, 4)
}

func TestMentionTermsForPlayer(t *testing.T) {
	team := models.Team{ID: "buf", FullName: "Buffalo Bills", City: "Buffalo", Nickname: "Bills", Abbreviation: "BUF"}
	terms := MentionTermsForPlayer(models.Player{
		ID: "p-ja", FullName: "Josh Allen", Position: models.PositionQB, TeamID: "buf",
	}, &team)

	assert.Contains(t, terms, "josh allen")
	assert.Contains(t, terms, "allen")
	assert.Contains(t, terms, "bills")
}

func TestScore_FiltersBelowThreshold(t *testing.T) {
	articles := []models.NewsArticle{
		article("Packers sign veteran linebacker", "https://x/1", "espn", time.Hour),
		article("League announces schedule changes", "https://x/2", "espn", time.Hour),
	}

	scored := Score(packersTerms(), articles, testScorerConfig())

	require.Len(t, scored, 1)
	assert.Equal(t, "https://x/1", scored[0].Article.URL)
	assert.Greater(t, scored[0].RelevanceScore, 1.0)
}

func TestScore_TitleOutweighsBody(t *testing.T) {
	published := time.Now().UTC().Add(-time.Hour)
	titleHit := models.NewsArticle{
		Title: "Packers make a move", URL: "https://x/title", SourceName: "yahoo", PublishedAt: &published,
	}
	bodyHit := models.NewsArticle{
		Title: "Roster move announced", URL: "https://x/body", SourceName: "yahoo", PublishedAt: &published,
		BodySnippet: "The Packers confirmed the signing on Tuesday.",
	}

	scored := Score(packersTerms(), []models.NewsArticle{bodyHit, titleHit}, testScorerConfig())

	require.Len(t, scored, 2)
	assert.Equal(t, "https://x/title", scored[0].Article.URL)
	assert.Greater(t, scored[0].RelevanceScore, scored[1].RelevanceScore)
}

func TestScore_RecencyBoost(t *testing.T) {
	fresh := article("Packers injury report", "https://x/fresh", "yahoo", time.Hour)
	stale := article("Packers injury report update", "https://x/stale", "yahoo", 14*24*time.Hour)

	scored := Score(packersTerms(), []models.NewsArticle{stale, fresh}, testScorerConfig())

	require.Len(t, scored, 2)
	assert.Equal(t, "https://x/fresh", scored[0].Article.URL)
}

func TestScore_MissingTimestampNotPenalizedBelowMentions(t *testing.T) {
	noDate := models.NewsArticle{Title: "Packers trade rumors", URL: "https://x/nodate", SourceName: "yahoo"}

	scored := Score(packersTerms(), []models.NewsArticle{noDate}, testScorerConfig())

	require.Len(t, scored, 1)
	assert.GreaterOrEqual(t, scored[0].RelevanceScore, 2.0) // title mention * title weight
}

func TestScore_SourceWeightBreaksEqualMentions(t *testing.T) {
	trusted := article("Packers name starter", "https://x/espn", "espn", time.Hour)
	aggregated := article("Packers name starter today", "https://x/gn", "google-news", time.Hour)

	scored := Score(packersTerms(), []models.NewsArticle{aggregated, trusted}, testScorerConfig())

	require.Len(t, scored, 2)
	assert.Equal(t, "https://x/espn", scored[0].Article.URL)
}

func TestScore_EmptyInputIsEmptyOutput(t *testing.T) {
	scored := Score(packersTerms(), nil, testScorerConfig())
	assert.Empty(t, scored)
}

func TestTitleSimilarity(t *testing.T) {
	tokens := func(s string) []string { return strings.Fields(s) }

	tests := []struct {
		name  string
		a     string
		b     string
		isDup bool
	}{
		{
			name:  "wire service rewrite",
			a:     "packers clinch division",
			b:     "green bay packers clinch nfc north",
			isDup: true,
		},
		{
			name:  "same story different length",
			a:     "josh allen injury update",
			b:     "josh allen injury update ahead of sunday",
			isDup: true,
		},
		{
			name:  "same team different story",
			a:     "packers clinch division",
			b:     "packers sign kicker",
			isDup: false,
		},
		{
			name:  "unrelated",
			a:     "draft order set",
			b:     "packers clinch division",
			isDup: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := TitleSimilarity(tokens(tt.a), tokens(tt.b))
			if tt.isDup {
				assert.GreaterOrEqual(t, sim, 0.6)
			} else {
				assert.Less(t, sim, 0.6)
			}
		})
	}
}

func TestScore_DuplicateFlaggingIsSymmetric(t *testing.T) {
	short := article("Packers clinch division", "https://x/short", "google-news", 2*time.Hour)
	long := article("Green Bay Packers clinch NFC North", "https://x/long", "espn", 2*time.Hour)

	for name, batch := range map[string][]models.NewsArticle{
		"short first": {short, long},
		"long first":  {long, short},
	} {
		t.Run(name, func(t *testing.T) {
			scored := Score(packersTerms(), batch, testScorerConfig())
			require.Len(t, scored, 2)

			// The espn copy scores higher and survives regardless of input order.
			assert.Equal(t, "https://x/long", scored[0].Article.URL)
			assert.Empty(t, scored[0].IsDuplicateOf)
			assert.Equal(t, "https://x/short", scored[1].Article.URL)
			assert.Equal(t, "https://x/long", scored[1].IsDuplicateOf)
		})
	}
}

func BenchmarkScore(b *testing.B) {
	cfg := testScorerConfig()
	terms := packersTerms()
	batch := []models.NewsArticle{
		article("Packers clinch division", "https://x/1", "espn", 2*time.Hour),
		article("Green Bay Packers clinch NFC North", "https://x/2", "google-news", 3*time.Hour),
		article("Injury report ahead of Sunday", "https://x/3", "yahoo", 5*time.Hour),
		article("Draft order takes shape", "https://x/4", "pft", 8*time.Hour),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Score(terms, batch, cfg)
	}
}
