// internal/workers/news/score-articles/handler_test.go
package scorearticles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron-workers/internal/catalog"
	serrors "gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/models"
	"gridiron-workers/internal/news"
)

// ==========================
// Test Logger Implementation
// ==========================

// TestLogger implements the Logger interface for testing
type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{
		t:      t,
		fields: make(map[string]interface{}),
	}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	newLogger := &TestLogger{
		t:      l.t,
		fields: make(map[string]interface{}),
	}
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

func (l *TestLogger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	allFields := make(map[string]interface{})
	for k, v := range l.fields {
		allFields[k] = v
	}
	for k, v := range fields {
		allFields[k] = v
	}
	return allFields
}

// ==========================
// Test Helper Functions
// ==========================

type stubCatalogs struct {
	snap *catalog.Snapshot
}

func (s *stubCatalogs) Snapshot() *catalog.Snapshot { return s.snap }

func createTestConfig() *Config {
	return &Config{
		Scorer: news.ScorerConfig{
			TitleWeight:     2.0,
			BodyWeight:      1.0,
			SourceWeights:   map[string]float64{"espn": 1.2, "google-news": 0.9},
			AcceptThreshold: 1.0,
			DedupThreshold:  0.6,
			RecencyHalfLife: 48 * time.Hour,
			SourcePriority:  []string{"espn", "pft", "yahoo", "google-news"},
		},
		MaxArticles: 6,
		Timeout:     10 * time.Second,
	}
}

func createTestSnapshot(t *testing.T) *catalog.Snapshot {
	teams := []models.Team{
		{ID: "gb", FullName: "Green Bay Packers", City: "Green Bay", Nickname: "Packers", Abbreviation: "GB"},
		{ID: "buf", FullName: "Buffalo Bills", City: "Buffalo", Nickname: "Bills", Abbreviation: "BUF"},
	}
	players := []models.Player{
		{ID: "p-ja", FullName: "Josh Allen", Position: models.PositionQB, TeamID: "buf"},
	}
	snap, err := catalog.BuildSnapshot(teams, players)
	require.NoError(t, err)
	return snap
}

func createHandler(t *testing.T, config *Config) *Handler {
	return NewHandler(config, &stubCatalogs{snap: createTestSnapshot(t)}, nil, NewTestLogger(t))
}

func teamEntity() models.ResolvedEntity {
	return models.ResolvedEntity{
		Type:        models.EntityTeam,
		CanonicalID: "gb",
		DisplayName: "Green Bay Packers",
		Confidence:  1.0,
		MatchMethod: models.MatchExact,
	}
}

func playerEntity() models.ResolvedEntity {
	return models.ResolvedEntity{
		Type:        models.EntityPlayer,
		CanonicalID: "p-ja",
		DisplayName: "Josh Allen",
		TeamID:      "buf",
		Confidence:  1.0,
		MatchMethod: models.MatchExact,
	}
}

func testArticle(title, url, source string) models.NewsArticle {
	published := time.Now().UTC().Add(-time.Hour)
	return models.NewsArticle{
		Title:       title,
		URL:         url,
		SourceName:  source,
		PublishedAt: &published,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_TeamEntity(t *testing.T) {
	handler := createHandler(t, createTestConfig())
	input := &Input{
		Entity: teamEntity(),
		Articles: []models.NewsArticle{
			testArticle("Packers activate rookie corner", "https://x/1", "espn"),
			testArticle("League revenue hits record", "https://x/2", "espn"),
		},
	}

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "gb", output.EntityID)
	require.Len(t, output.Articles, 1)
	assert.Equal(t, "https://x/1", output.Articles[0].Article.URL)
	assert.Greater(t, output.Articles[0].RelevanceScore, 1.0)
}

func TestHandler_Execute_PlayerEntityUsesTeamTerms(t *testing.T) {
	handler := createHandler(t, createTestConfig())
	input := &Input{
		Entity: playerEntity(),
		Articles: []models.NewsArticle{
			// Mentions the player's team nickname but never his name.
			testArticle("Bills open as favorites", "https://x/team", "espn"),
			testArticle("Josh Allen questionable for Sunday", "https://x/name", "espn"),
		},
	}

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, output.Articles, 2)
	urls := []string{output.Articles[0].Article.URL, output.Articles[1].Article.URL}
	assert.Contains(t, urls, "https://x/team")
	assert.Contains(t, urls, "https://x/name")
}

func TestHandler_Execute_NoRelevantNewsIsEmptyNotError(t *testing.T) {
	handler := createHandler(t, createTestConfig())
	input := &Input{
		Entity: teamEntity(),
		Articles: []models.NewsArticle{
			testArticle("Stadium funding vote delayed", "https://x/1", "espn"),
		},
	}

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "gb", output.EntityID)
	assert.Empty(t, output.Articles)
}

func TestHandler_Execute_CapsPrimaries(t *testing.T) {
	config := createTestConfig()
	config.MaxArticles = 2
	handler := createHandler(t, config)

	input := &Input{
		Entity: teamEntity(),
		Articles: []models.NewsArticle{
			testArticle("Packers clinch division", "https://x/1", "espn"),
			testArticle("Packers sign kicker", "https://x/2", "espn"),
			testArticle("Packers waive lineman", "https://x/3", "espn"),
		},
	}

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	assert.Len(t, output.Articles, 2)
	for _, a := range output.Articles {
		assert.Empty(t, a.IsDuplicateOf)
	}
}

func TestHandler_Execute_DuplicateRidesWithItsPrimary(t *testing.T) {
	config := createTestConfig()
	config.MaxArticles = 1
	handler := createHandler(t, config)

	input := &Input{
		Entity: teamEntity(),
		Articles: []models.NewsArticle{
			testArticle("Green Bay Packers clinch NFC North", "https://x/long", "espn"),
			testArticle("Packers clinch division", "https://x/short", "google-news"),
		},
	}

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, output.Articles, 2)
	assert.Empty(t, output.Articles[0].IsDuplicateOf)
	assert.Equal(t, output.Articles[0].Article.URL, output.Articles[1].IsDuplicateOf)
}

func TestHandler_Execute_UnknownEntityType(t *testing.T) {
	handler := createHandler(t, createTestConfig())
	input := &Input{
		Entity: models.ResolvedEntity{Type: "VENUE", CanonicalID: "lambeau"},
	}

	output, err := handler.execute(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	var stdErr *serrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, serrors.ErrCodeEntityNotFound, stdErr.Code)
}

func TestHandler_Execute_EntityMissingFromSnapshot(t *testing.T) {
	handler := createHandler(t, createTestConfig())
	input := &Input{
		Entity: models.ResolvedEntity{Type: models.EntityTeam, CanonicalID: "sea"},
	}

	output, err := handler.execute(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	var stdErr *serrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, serrors.ErrCodeEntityNotFound, stdErr.Code)
}

func TestHandler_Execute_SnapshotNotLoaded(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubCatalogs{snap: nil}, nil, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Entity: teamEntity()})

	require.Error(t, err)
	assert.Nil(t, output)
	var stdErr *serrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, serrors.ErrCodeCatalogLoadFailed, stdErr.Code)
}

// ==========================
// Unit Tests
// ==========================

func TestCapArticles(t *testing.T) {
	scored := func(url, dupOf string) models.ScoredArticle {
		return models.ScoredArticle{
			Article:       models.NewsArticle{URL: url},
			IsDuplicateOf: dupOf,
		}
	}

	tests := []struct {
		name     string
		in       []models.ScoredArticle
		max      int
		expected []string
	}{
		{
			name:     "zero max keeps everything",
			in:       []models.ScoredArticle{scored("a", ""), scored("b", "")},
			max:      0,
			expected: []string{"a", "b"},
		},
		{
			name:     "primaries past the cap are dropped",
			in:       []models.ScoredArticle{scored("a", ""), scored("b", ""), scored("c", "")},
			max:      2,
			expected: []string{"a", "b"},
		},
		{
			name:     "duplicate of a retained primary survives",
			in:       []models.ScoredArticle{scored("a", ""), scored("b", "a"), scored("c", "")},
			max:      1,
			expected: []string{"a", "b"},
		},
		{
			name:     "duplicate of a dropped primary falls with it",
			in:       []models.ScoredArticle{scored("a", ""), scored("b", ""), scored("c", "b")},
			max:      1,
			expected: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capArticles(tt.in, tt.max)
			urls := make([]string, 0, len(out))
			for _, a := range out {
				urls = append(urls, a.Article.URL)
			}
			assert.Equal(t, tt.expected, urls)
		})
	}
}
