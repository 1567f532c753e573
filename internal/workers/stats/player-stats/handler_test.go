// internal/workers/stats/player-stats/handler_test.go
package playerstats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron-workers/internal/models"
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

func createTestConfig() *Config {
	return &Config{
		StatsBaseURL: "http://localhost:9200",
		APIKey:       "test-key",
		Timeout:      15 * time.Second,
		MaxRetries:   2,
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

func intPtr(n int) *int { return &n }

func createStatsResponse(season int, week *int, stats StatsLine) string {
	data, _ := json.Marshal(statsResponse{
		PlayerID: "p-ja",
		Season:   season,
		Week:     week,
		Stats:    stats,
	})
	return string(data)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	line := StatsLine{
		GamesPlayed:      16,
		PassingYards:     4306,
		PassingTDs:       29,
		Interceptions:    18,
		RushingYards:     762,
		RushingTDs:       15,
		FantasyPointsPPR: 384.5,
		FantasyPointsStd: 384.5,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/players/p-ja/stats", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		assert.Empty(t, r.URL.Query().Get("week"))
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createStatsResponse(2025, nil, line)))
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	handler := NewHandler(config, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{
		Entity: playerEntity(),
		Season: 2025,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "p-ja", output.PlayerID)
	assert.Equal(t, "Josh Allen", output.PlayerName)
	assert.Equal(t, 2025, output.Season)
	assert.Nil(t, output.Week)
	assert.Equal(t, line, output.Stats)
}

func TestHandler_Execute_WeeklyStats(t *testing.T) {
	line := StatsLine{GamesPlayed: 1, PassingYards: 287, PassingTDs: 3, FantasyPointsPPR: 28.2}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		assert.Equal(t, "7", r.URL.Query().Get("week"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createStatsResponse(2025, intPtr(7), line)))
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	handler := NewHandler(config, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{
		Entity: playerEntity(),
		Season: 2025,
		Week:   intPtr(7),
	})

	require.NoError(t, err)
	require.NotNil(t, output.Week)
	assert.Equal(t, 7, *output.Week)
	assert.Equal(t, line, output.Stats)
}

func TestHandler_Execute_DefaultsToCurrentSeason(t *testing.T) {
	expected := currentSeason(time.Now().UTC())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, strconv.Itoa(expected), r.URL.Query().Get("season"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createStatsResponse(expected, nil, StatsLine{})))
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	handler := NewHandler(config, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Entity: playerEntity()})

	require.NoError(t, err)
	assert.Equal(t, expected, output.Season)
}

func TestHandler_Execute_ZeroStatLineIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createStatsResponse(2025, nil, StatsLine{})))
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	handler := NewHandler(config, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Entity: playerEntity(), Season: 2025})

	require.NoError(t, err)
	assert.Equal(t, StatsLine{}, output.Stats)
	assert.Equal(t, 0.0, output.Stats.FantasyPointsPPR)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_NonPlayerEntity(t *testing.T) {
	handler := NewHandler(createTestConfig(), NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{
		Entity: models.ResolvedEntity{Type: models.EntityTeam, CanonicalID: "gb"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatsNotFound))
	assert.Nil(t, output)
}

func TestHandler_Execute_NotFoundIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	config.MaxRetries = 3
	handler := NewHandler(config, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Entity: playerEntity(), Season: 2025})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatsNotFound))
	assert.Nil(t, output)
	assert.Equal(t, 1, attempts)
}

func TestHandler_Execute_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	config.MaxRetries = 0
	handler := NewHandler(config, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Entity: playerEntity(), Season: 2025})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatsAPIFailed))
	assert.Nil(t, output)
}

func TestHandler_Execute_RetryLogic(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createStatsResponse(2025, nil, StatsLine{GamesPlayed: 10})))
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	config.MaxRetries = 2
	handler := NewHandler(config, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Entity: playerEntity(), Season: 2025})

	require.NoError(t, err)
	assert.Equal(t, 10, output.Stats.GamesPlayed)
	assert.GreaterOrEqual(t, attempts, 2)
}

func TestHandler_Execute_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	config.Timeout = 50 * time.Millisecond
	handler := NewHandler(config, NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	output, err := handler.execute(ctx, &Input{Entity: playerEntity(), Season: 2025})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatsAPITimeout))
	assert.Nil(t, output)
}

func TestHandler_Execute_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("invalid json {{{"))
	}))
	defer server.Close()

	config := createTestConfig()
	config.StatsBaseURL = server.URL
	handler := NewHandler(config, NewTestLogger(t))

	output, err := handler.execute(context.Background(), &Input{Entity: playerEntity(), Season: 2025})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatsAPIFailed))
	assert.Nil(t, output)
}

// ==========================
// Unit Tests
// ==========================

func TestCurrentSeason(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"midseason november", time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC), 2026},
		{"playoffs january", time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), 2026},
		{"super bowl february", time.Date(2027, 2, 8, 0, 0, 0, 0, time.UTC), 2026},
		{"offseason march", time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), 2027},
		{"september kickoff", time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, currentSeason(tt.now))
		})
	}
}
