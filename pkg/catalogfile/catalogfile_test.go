// pkg/catalogfile/catalogfile_test.go
package catalogfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron-workers/internal/catalog"
	"gridiron-workers/internal/models"
)

const validSeed = `{
  "version": "2026.1",
  "updatedAt": "2026-08-01T00:00:00Z",
  "teams": [
    {"id": "gb", "fullName": "Green Bay Packers", "city": "Green Bay",
     "nickname": "Packers", "abbreviation": "GB", "aliases": ["pack"]}
  ],
  "players": [
    {"id": "p-jl", "fullName": "Jordan Love", "position": "QB", "teamId": "gb"}
  ]
}`

func TestParse_ValidSeed(t *testing.T) {
	file, err := Parse([]byte(validSeed))

	require.NoError(t, err)
	assert.Equal(t, "2026.1", file.Version)
	require.Len(t, file.Teams, 1)
	assert.Equal(t, "Green Bay Packers", file.Teams[0].FullName)
	assert.Equal(t, []string{"pack"}, file.Teams[0].Aliases)
	require.Len(t, file.Players, 1)
	assert.Equal(t, models.PositionQB, file.Players[0].Position)
	assert.Equal(t, "gb", file.Players[0].TeamID)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{
			name:    "missing version",
			payload: `{"teams": [], "players": []}`,
			wantMsg: "version",
		},
		{
			name:    "team without nickname",
			payload: `{"version": "1", "teams": [{"id": "gb", "fullName": "Green Bay Packers", "city": "Green Bay", "abbreviation": "GB"}], "players": []}`,
			wantMsg: "nickname",
		},
		{
			name:    "abbreviation too short",
			payload: `{"version": "1", "teams": [{"id": "gb", "fullName": "Green Bay Packers", "city": "Green Bay", "nickname": "Packers", "abbreviation": "G"}], "players": []}`,
			wantMsg: "abbreviation",
		},
		{
			name:    "player without position",
			payload: `{"version": "1", "teams": [], "players": [{"id": "p-1", "fullName": "Jordan Love"}]}`,
			wantMsg: "position",
		},
		{
			name:    "not json",
			payload: `version: 1`,
			wantMsg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			require.Error(t, err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(validSeed), 0o644))

	file, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "2026.1", file.Version)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_ShippedSeed(t *testing.T) {
	file, err := Load(filepath.Join("..", "..", "configs", "catalog-seed.json"))

	require.NoError(t, err)
	assert.Len(t, file.Teams, 32)
	assert.NotEmpty(t, file.Players)

	// The whole league must index without alias collisions.
	_, err = catalog.BuildSnapshot(file.Teams, file.Players)
	require.NoError(t, err)
}
