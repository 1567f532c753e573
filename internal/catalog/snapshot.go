// internal/catalog/snapshot.go
package catalog

import (
	"fmt"
	"strings"
	"time"

	serrors "gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/models"
	"gridiron-workers/internal/nlu"
)

// Snapshot is one immutable, fully-indexed view of the reference catalog.
// Resolutions run against a single snapshot; reloads build a new one and
// swap it in wholesale, so no resolution ever sees a half-updated catalog.
type Snapshot struct {
	teams   map[string]models.Team
	players map[string]models.Player

	// aliasIndex maps each normalized alias to exactly one entity; cross-
	// entity collisions are rejected at build time, never dropped silently.
	aliasIndex map[string]nlu.AliasRef

	// surnameIndex and cityIndex are derived, not declared: several players
	// legitimately share a surname and two-team markets share a city, so
	// these may hold multiple refs per key.
	surnameIndex map[string][]nlu.AliasRef
	cityIndex    map[string][]nlu.AliasRef

	aliasRefs []nlu.AliasRef
	loadedAt  time.Time
}

// BuildSnapshot validates records, builds the lookup indices, and rejects
// alias collisions across distinct canonical ids.
func BuildSnapshot(teams []models.Team, players []models.Player) (*Snapshot, error) {
	s := &Snapshot{
		teams:        make(map[string]models.Team, len(teams)),
		players:      make(map[string]models.Player, len(players)),
		aliasIndex:   make(map[string]nlu.AliasRef),
		surnameIndex: make(map[string][]nlu.AliasRef),
		cityIndex:    make(map[string][]nlu.AliasRef),
		loadedAt:     time.Now().UTC(),
	}

	for _, t := range teams {
		if t.ID == "" || t.FullName == "" {
			return nil, serrors.NewCatalogLoadFailedError(fmt.Sprintf("malformed team record: %+v", t))
		}
		if _, dup := s.teams[t.ID]; dup {
			return nil, serrors.NewCatalogLoadFailedError("duplicate team id: " + t.ID)
		}
		s.teams[t.ID] = t

		for _, alias := range teamAliases(t) {
			if err := s.addAlias(alias, nlu.AliasRef{Type: models.EntityTeam, ID: t.ID}); err != nil {
				return nil, err
			}
		}
		if t.City != "" {
			key := nlu.NormalizePhrase(t.City)
			s.cityIndex[key] = append(s.cityIndex[key], nlu.AliasRef{Alias: key, Type: models.EntityTeam, ID: t.ID})
		}
	}

	for _, p := range players {
		if p.ID == "" || p.FullName == "" {
			return nil, serrors.NewCatalogLoadFailedError(fmt.Sprintf("malformed player record: %+v", p))
		}
		if !models.ValidPositions[p.Position] {
			return nil, serrors.NewCatalogLoadFailedError(fmt.Sprintf("player %s has unknown position %q", p.ID, p.Position))
		}
		if p.TeamID != "" {
			if _, ok := s.teams[p.TeamID]; !ok {
				return nil, serrors.NewCatalogLoadFailedError(fmt.Sprintf("player %s references unknown team %q", p.ID, p.TeamID))
			}
		}
		if _, dup := s.players[p.ID]; dup {
			return nil, serrors.NewCatalogLoadFailedError("duplicate player id: " + p.ID)
		}
		s.players[p.ID] = p

		ref := nlu.AliasRef{Type: models.EntityPlayer, ID: p.ID}
		for _, alias := range playerAliases(p) {
			if err := s.addAlias(alias, ref); err != nil {
				return nil, err
			}
		}
		if surname := playerSurname(p.FullName); surname != "" {
			key := nlu.NormalizePhrase(surname)
			s.surnameIndex[key] = append(s.surnameIndex[key], nlu.AliasRef{Alias: key, Type: models.EntityPlayer, ID: p.ID})
		}
	}

	return s, nil
}

func (s *Snapshot) addAlias(alias string, ref nlu.AliasRef) error {
	key := nlu.NormalizePhrase(alias)
	if key == "" {
		return nil
	}
	ref.Alias = key
	if existing, ok := s.aliasIndex[key]; ok {
		if existing.ID == ref.ID && existing.Type == ref.Type {
			return nil // same entity listed twice, harmless
		}
		return serrors.NewCatalogLoadFailedError(fmt.Sprintf(
			"alias %q maps to both %s/%s and %s/%s", key, existing.Type, existing.ID, ref.Type, ref.ID))
	}
	s.aliasIndex[key] = ref
	s.aliasRefs = append(s.aliasRefs, ref)
	return nil
}

// LookupAlias implements nlu.Catalog.
func (s *Snapshot) LookupAlias(phrase string) (nlu.AliasRef, bool) {
	ref, ok := s.aliasIndex[nlu.NormalizePhrase(phrase)]
	return ref, ok
}

// LookupCandidates implements nlu.Catalog: unique alias index plus the
// derived surname index, deduplicated by entity.
func (s *Snapshot) LookupCandidates(phrase string) []nlu.AliasRef {
	key := nlu.NormalizePhrase(phrase)
	var out []nlu.AliasRef
	seen := map[string]bool{}
	if ref, ok := s.aliasIndex[key]; ok {
		out = append(out, ref)
		seen[ref.ID] = true
	}
	for _, ref := range s.surnameIndex[key] {
		if !seen[ref.ID] {
			out = append(out, ref)
			seen[ref.ID] = true
		}
	}
	for _, ref := range s.cityIndex[key] {
		if !seen[ref.ID] {
			out = append(out, ref)
			seen[ref.ID] = true
		}
	}
	return out
}

// AliasRefs implements nlu.Catalog.
func (s *Snapshot) AliasRefs() []nlu.AliasRef {
	return s.aliasRefs
}

// TeamByID implements nlu.Catalog.
func (s *Snapshot) TeamByID(id string) (models.Team, bool) {
	t, ok := s.teams[id]
	return t, ok
}

// PlayerByID implements nlu.Catalog.
func (s *Snapshot) PlayerByID(id string) (models.Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// TeamCount and PlayerCount feed the snapshot-size gauges.
func (s *Snapshot) TeamCount() int   { return len(s.teams) }
func (s *Snapshot) PlayerCount() int { return len(s.players) }

// LoadedAt reports when this snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

func teamAliases(t models.Team) []string {
	out := []string{t.FullName}
	if t.Nickname != "" {
		out = append(out, t.Nickname)
	}
	if t.Abbreviation != "" {
		out = append(out, t.Abbreviation)
	}
	return append(out, t.Aliases...)
}

func playerAliases(p models.Player) []string {
	return append([]string{p.FullName}, p.Aliases...)
}

func playerSurname(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}
