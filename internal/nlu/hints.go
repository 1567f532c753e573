// internal/nlu/hints.go
package nlu

import (
	"errors"

	"gridiron-workers/internal/models"
)

// MultiTeamPolicy selects the behavior when an utterance names more than one
// team. The source description leaves this ambiguous, so it is configuration
// rather than a hard-coded choice.
type MultiTeamPolicy string

const (
	MultiTeamFirst  MultiTeamPolicy = "first"
	MultiTeamReject MultiTeamPolicy = "reject"
)

// ErrMultipleTeamHints is returned under the reject policy when two distinct
// teams are mentioned; callers surface it as an ambiguity to clarify.
var ErrMultipleTeamHints = errors.New("utterance mentions multiple teams")

// Spelled-out position names, including the two-token forms. Single-token
// position codes (qb, rb, ...) are matched against models.ValidPositions.
var positionNames = map[string]models.Position{
	"quarterback":      models.PositionQB,
	"runningback":      models.PositionRB,
	"running back":     models.PositionRB,
	"wide receiver":    models.PositionWR,
	"wideout":          models.PositionWR,
	"receiver":         models.PositionWR,
	"tight end":        models.PositionTE,
	"kicker":           models.PositionK,
	"punter":           models.PositionP,
	"defense":          models.PositionDEF,
	"defensive end":    models.PositionDE,
	"defensive tackle": models.PositionDT,
	"linebacker":       models.PositionLB,
	"cornerback":       models.PositionCB,
	"corner":           models.PositionCB,
	"safety":           models.PositionS,
	"guard":            models.PositionG,
	"tackle":           models.PositionT,
	"center":           models.PositionC,
}

// ExtractHints scans cleaned tokens for team-alias and position cues.
// Hint tokens are NOT removed from the subject sequence: "Bills" in
// "Josh Allen QB for the Bills" is both the team hint and, in other
// phrasings, the resolution target itself.
//
// Duplicate POSITION hints: last wins. Duplicate TEAM hints: policy-driven
// (first-wins or reject); a repeat mention of the same team is not a conflict.
func ExtractHints(tokens []string, cat Catalog, policy MultiTeamPolicy) ([]models.Hint, error) {
	var teamHint *models.Hint
	var positionHint *models.Hint

	i := 0
	for i < len(tokens) {
		// Team aliases first, widest span first ("green bay packers" before "packers").
		consumed := 0
		for width := 3; width >= 1; width-- {
			if i+width > len(tokens) {
				continue
			}
			phrase := joinTokens(tokens[i : i+width])
			ref, ok := uniqueTeamRef(cat.LookupCandidates(phrase))
			if !ok {
				continue
			}
			if teamHint == nil {
				teamHint = &models.Hint{Kind: models.HintTeam, Value: ref.ID, SourceToken: phrase}
			} else if teamHint.Value != ref.ID && policy == MultiTeamReject {
				return nil, ErrMultipleTeamHints
			}
			consumed = width
			break
		}
		if consumed > 0 {
			i += consumed
			continue
		}

		// Two-token position names ("tight end", "defensive tackle").
		if i+1 < len(tokens) {
			if pos, ok := positionNames[tokens[i]+" "+tokens[i+1]]; ok {
				positionHint = &models.Hint{Kind: models.HintPosition, Value: string(pos), SourceToken: tokens[i] + " " + tokens[i+1]}
				i += 2
				continue
			}
		}

		// Single-token position code or name.
		if pos, ok := positionToken(tokens[i]); ok {
			positionHint = &models.Hint{Kind: models.HintPosition, Value: string(pos), SourceToken: tokens[i]}
		}
		i++
	}

	hints := make([]models.Hint, 0, 2)
	if teamHint != nil {
		hints = append(hints, *teamHint)
	}
	if positionHint != nil {
		hints = append(hints, *positionHint)
	}
	return hints, nil
}

// uniqueTeamRef accepts a candidate set only when it names exactly one team.
// A shared-city phrase ("new york") is no hint at all, not a guess.
func uniqueTeamRef(refs []AliasRef) (AliasRef, bool) {
	var team AliasRef
	found := false
	for _, ref := range refs {
		if ref.Type != models.EntityTeam {
			continue
		}
		if found && team.ID != ref.ID {
			return AliasRef{}, false
		}
		team = ref
		found = true
	}
	return team, found
}

func positionToken(tok string) (models.Position, bool) {
	if pos, ok := positionNames[tok]; ok {
		return pos, true
	}
	up := models.Position(upper(tok))
	if models.ValidPositions[up] {
		return up, true
	}
	return "", false
}

// Position codes are short ASCII; avoid pulling strings.ToUpper's full
// casing tables into the hot path.
func upper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}
