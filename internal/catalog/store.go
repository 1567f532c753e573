// internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"

	serrors "gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/models"
)

// Store reads the reference catalog out of PostgreSQL.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadRecords fetches all teams and players with their alias lists.
func (s *Store) LoadRecords(ctx context.Context) ([]models.Team, []models.Player, error) {
	teams, err := s.loadTeams(ctx)
	if err != nil {
		return nil, nil, err
	}
	players, err := s.loadPlayers(ctx)
	if err != nil {
		return nil, nil, err
	}
	return teams, players, nil
}

func (s *Store) loadTeams(ctx context.Context) ([]models.Team, error) {
	aliases, err := s.loadAliases(ctx, "SELECT team_id, alias FROM team_aliases")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, full_name, city, nickname, abbreviation FROM teams ORDER BY id")
	if err != nil {
		return nil, serrors.NewCatalogQueryFailedError(err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.FullName, &t.City, &t.Nickname, &t.Abbreviation); err != nil {
			return nil, serrors.NewCatalogQueryFailedError(err)
		}
		t.Aliases = aliases[t.ID]
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, serrors.NewCatalogQueryFailedError(err)
	}
	return teams, nil
}

func (s *Store) loadPlayers(ctx context.Context) ([]models.Player, error) {
	aliases, err := s.loadAliases(ctx, "SELECT player_id, alias FROM player_aliases")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, full_name, position, COALESCE(team_id, '') FROM players ORDER BY id")
	if err != nil {
		return nil, serrors.NewCatalogQueryFailedError(err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		var position string
		if err := rows.Scan(&p.ID, &p.FullName, &position, &p.TeamID); err != nil {
			return nil, serrors.NewCatalogQueryFailedError(err)
		}
		p.Position = models.Position(position)
		p.Aliases = aliases[p.ID]
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, serrors.NewCatalogQueryFailedError(err)
	}
	return players, nil
}

func (s *Store) loadAliases(ctx context.Context, query string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, serrors.NewCatalogQueryFailedError(err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, alias string
		if err := rows.Scan(&id, &alias); err != nil {
			return nil, serrors.NewCatalogQueryFailedError(err)
		}
		out[id] = append(out[id], alias)
	}
	if err := rows.Err(); err != nil {
		return nil, serrors.NewCatalogQueryFailedError(err)
	}
	return out, nil
}
