// internal/nlu/catalog_test.go
package nlu

import "gridiron-workers/internal/models"

// fakeCatalog is a hand-built Catalog for resolver and hint tests: a unique
// alias index plus a derived index holding the legitimately shared phrases
// (surnames, two-team cities).
type fakeCatalog struct {
	aliases map[string]AliasRef
	derived map[string][]AliasRef
	teams   map[string]models.Team
	players map[string]models.Player
}

func (f *fakeCatalog) LookupAlias(phrase string) (AliasRef, bool) {
	ref, ok := f.aliases[NormalizePhrase(phrase)]
	return ref, ok
}

func (f *fakeCatalog) LookupCandidates(phrase string) []AliasRef {
	key := NormalizePhrase(phrase)
	var out []AliasRef
	seen := map[string]bool{}
	if ref, ok := f.aliases[key]; ok {
		out = append(out, ref)
		seen[ref.ID] = true
	}
	for _, ref := range f.derived[key] {
		if !seen[ref.ID] {
			out = append(out, ref)
			seen[ref.ID] = true
		}
	}
	return out
}

func (f *fakeCatalog) AliasRefs() []AliasRef {
	out := make([]AliasRef, 0, len(f.aliases))
	for _, ref := range f.aliases {
		out = append(out, ref)
	}
	return out
}

func (f *fakeCatalog) TeamByID(id string) (models.Team, bool) {
	t, ok := f.teams[id]
	return t, ok
}

func (f *fakeCatalog) PlayerByID(id string) (models.Player, bool) {
	p, ok := f.players[id]
	return p, ok
}

func newFakeCatalog() *fakeCatalog {
	teamRef := func(id string) AliasRef { return AliasRef{Type: models.EntityTeam, ID: id} }
	playerRef := func(id string) AliasRef { return AliasRef{Type: models.EntityPlayer, ID: id} }

	f := &fakeCatalog{
		aliases: map[string]AliasRef{},
		derived: map[string][]AliasRef{},
		teams: map[string]models.Team{
			"buf": {ID: "buf", FullName: "Buffalo Bills", City: "Buffalo", Nickname: "Bills", Abbreviation: "BUF"},
			"gb":  {ID: "gb", FullName: "Green Bay Packers", City: "Green Bay", Nickname: "Packers", Abbreviation: "GB"},
			"nyg": {ID: "nyg", FullName: "New York Giants", City: "New York", Nickname: "Giants", Abbreviation: "NYG"},
			"nyj": {ID: "nyj", FullName: "New York Jets", City: "New York", Nickname: "Jets", Abbreviation: "NYJ"},
			"lac": {ID: "lac", FullName: "Los Angeles Chargers", City: "Los Angeles", Nickname: "Chargers", Abbreviation: "LAC"},
		},
		players: map[string]models.Player{
			"p-ja": {ID: "p-ja", FullName: "Josh Allen", Position: models.PositionQB, TeamID: "buf"},
			"p-ka": {ID: "p-ka", FullName: "Keenan Allen", Position: models.PositionWR, TeamID: "lac"},
			"p-pm": {ID: "p-pm", FullName: "Patrick Mahomes", Position: models.PositionQB, TeamID: "kc"},
		},
	}

	add := func(alias string, ref AliasRef) {
		key := NormalizePhrase(alias)
		ref.Alias = key
		f.aliases[key] = ref
	}
	derive := func(key string, ref AliasRef) {
		key = NormalizePhrase(key)
		ref.Alias = key
		f.derived[key] = append(f.derived[key], ref)
	}

	for id, t := range f.teams {
		add(t.FullName, teamRef(id))
		add(t.Nickname, teamRef(id))
		add(t.Abbreviation, teamRef(id))
		derive(t.City, teamRef(id))
	}
	add("pack", teamRef("gb"))

	for id, p := range f.players {
		add(p.FullName, playerRef(id))
	}
	add("mahomes", playerRef("p-pm"))
	derive("allen", playerRef("p-ja"))
	derive("allen", playerRef("p-ka"))

	// kc is deliberately absent from the team map so a player may reference a
	// team that is not a resolution target in these tests.
	return f
}
