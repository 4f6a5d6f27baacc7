package schedule

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/samber/lo"
)

// CloseGame records that Team plays on DayA and DayB with only Gap slots in between.
type CloseGame struct {
	Team, DayA, DayB, Gap int
}

func (cg CloseGame) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", cg.Team, cg.DayA, cg.DayB, cg.Gap)
}

func FormatCloseGames(closeGames []CloseGame) string {
	return strings.Join(lo.Map(closeGames, func(cg CloseGame, _ int) string { return cg.String() }), ";")
}

func ParseCloseGames(text string) ([]CloseGame, error) {
	closeGames := make([]CloseGame, 0)
	text = strings.TrimSpace(text)
	if text == "" {
		return closeGames, nil
	}

	for _, tuple := range strings.Split(text, ";") {
		fields := strings.Split(tuple, ",")
		if len(fields) != 4 {
			return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "close game %q has %d values, expected 4", tuple, len(fields))
		}
		values := make([]int, 4)
		for i, field := range fields {
			value, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, apperrors.Wrap(err, apperrors.CodeMalformedRecord, "non-integer close game value").
					WithField("close_game", tuple)
			}
			values[i] = value
		}
		closeGames = append(closeGames, CloseGame{Team: values[0], DayA: values[1], DayB: values[2], Gap: values[3]})
	}
	return closeGames, nil
}

type teamDay struct {
	team, day int
}

// ConflictIndex maps (team, day) to the largest close-game gap touching it.
type ConflictIndex map[teamDay]int

func IndexCloseGames(closeGames []CloseGame) ConflictIndex {
	index := make(ConflictIndex)
	for _, cg := range closeGames {
		for _, day := range []int{cg.DayA, cg.DayB} {
			key := teamDay{team: cg.Team, day: day}
			if cg.Gap > index[key] {
				index[key] = cg.Gap
			}
		}
	}
	return index
}

// Gap returns 0 when team has no conflict on day.
func (index ConflictIndex) Gap(team, day int) int {
	return index[teamDay{team: team, day: day}]
}

// Decoration describes how one matrix cell is highlighted.
type Decoration struct {
	Home bool // home team has a close game on the day
	Away bool
	Gap  int // larger of the two sides' gaps
}

func Decorate(home, away, day int, index ConflictIndex) Decoration {
	homeGap, awayGap := index.Gap(home, day), index.Gap(away, day)
	return Decoration{Home: homeGap > 0, Away: awayGap > 0, Gap: max(homeGap, awayGap)}
}

func (d Decoration) Conflict() bool {
	return d.Home || d.Away
}

func (d Decoration) Both() bool {
	return d.Home && d.Away
}

func (d Decoration) Severe() bool {
	return d.Gap == 1
}
