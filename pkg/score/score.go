// Package score reduces the solver's lexicographic cost vector to one comparable integer.
package score

import (
	"fmt"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
)

// Scale must stay strictly above any secondary cost the encoding can report.
const Scale = 1000

type Cost struct {
	Primary   int
	Secondary int
}

// CostFromVector reads up to two priority levels. Missing levels count as zero.
func CostFromVector(vector []int) (Cost, error) {
	if len(vector) > 2 {
		return Cost{}, apperrors.Newf(apperrors.CodeScoreOverflow, "expected at most 2 cost levels, got %d", len(vector)).
			WithField("cost", fmt.Sprint(vector))
	}

	var cost Cost
	if len(vector) > 0 {
		cost.Primary = vector[0]
	}
	if len(vector) > 1 {
		cost.Secondary = vector[1]
	}
	return cost, nil
}

func (cost Cost) Less(other Cost) bool {
	if cost.Primary != other.Primary {
		return cost.Primary < other.Primary
	}
	return cost.Secondary < other.Secondary
}

// MaxPossibleGames is the number of ordered pairs, every pair playing at most once.
func MaxPossibleGames(teams int) int {
	return teams * (teams - 1)
}

// Unified maps cost to (MaxPossibleGames(teams) + primary) * Scale + secondary. It fails
// instead of producing a score that would break the lexicographic order.
func Unified(cost Cost, teams int) (int, error) {
	if cost.Primary < 0 || cost.Secondary < 0 {
		return 0, apperrors.Newf(apperrors.CodeScoreOverflow, "negative cost (%d, %d)", cost.Primary, cost.Secondary).
			WithField("opt1", cost.Primary).
			WithField("opt2", cost.Secondary)
	}
	if cost.Secondary >= Scale {
		return 0, apperrors.Newf(apperrors.CodeScoreOverflow, "secondary cost %d does not fit below scale %d", cost.Secondary, Scale).
			WithField("opt1", cost.Primary).
			WithField("opt2", cost.Secondary)
	}
	return (MaxPossibleGames(teams)+cost.Primary)*Scale + cost.Secondary, nil
}
