// Package schedule holds the team by team day matrix built from one solver model,
// its close-game conflicts and their terminal rendering.
package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/limaJavier/lzcup/pkg/asp"
	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/samber/lo"
)

// Unassigned marks a pair without a day. The diagonal is always Unassigned.
const Unassigned = -1

// Matrix maps (home, away) to a day. Storage is 0-indexed, the API 1-indexed.
type Matrix struct {
	cells [][]int
}

func NewMatrix(teams int) Matrix {
	cells := make([][]int, teams)
	for i := range cells {
		cells[i] = make([]int, teams)
		for j := range cells[i] {
			cells[i][j] = Unassigned
		}
	}
	return Matrix{cells: cells}
}

func (m Matrix) Teams() int {
	return len(m.cells)
}

func (m Matrix) At(home, away int) int {
	return m.cells[home-1][away-1]
}

// Assign places one game. Teams are 1-indexed and a team cannot host itself.
func (m Matrix) Assign(home, away, day int) error {
	teams := m.Teams()
	if home < 1 || home > teams || away < 1 || away > teams {
		return apperrors.Newf(apperrors.CodeMalformedAtom, "game %d-%d is outside %d teams", home, away, teams).
			WithField("atom", fmt.Sprintf("schedule(%d,%d,%d)", home, away, day))
	}
	if home == away {
		return apperrors.Newf(apperrors.CodeMalformedAtom, "team %d cannot play itself", home).
			WithField("atom", fmt.Sprintf("schedule(%d,%d,%d)", home, away, day))
	}
	if day < 0 {
		return apperrors.Newf(apperrors.CodeMalformedAtom, "negative day %d", day).
			WithField("atom", fmt.Sprintf("schedule(%d,%d,%d)", home, away, day))
	}
	m.cells[home-1][away-1] = day
	return nil
}

// Game is one assigned (home, away, day) triple.
type Game struct {
	Home, Away, Day int
}

func (g Game) String() string {
	return fmt.Sprintf("schedule(%d, %d, %d)", g.Home, g.Away, g.Day)
}

// Assignments lists the assigned games in row-major order.
func (m Matrix) Assignments() []Game {
	games := make([]Game, 0)
	for i, row := range m.cells {
		for j, day := range row {
			if day != Unassigned {
				games = append(games, Game{Home: i + 1, Away: j + 1, Day: day})
			}
		}
	}
	return games
}

// String serialises the matrix as semicolon-separated rows of comma-separated days.
func (m Matrix) String() string {
	rows := lo.Map(m.cells, func(row []int, _ int) string {
		return strings.Join(lo.Map(row, func(day int, _ int) string { return strconv.Itoa(day) }), ",")
	})
	return strings.Join(rows, ";")
}

// ParseMatrix is the inverse of Matrix.String.
func ParseMatrix(text string) (Matrix, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Matrix{}, apperrors.New(apperrors.CodeMalformedRecord, "empty schedule")
	}

	rows := strings.Split(text, ";")
	m := NewMatrix(len(rows))
	for i, row := range rows {
		values := strings.Split(row, ",")
		if len(values) != len(rows) {
			return Matrix{}, apperrors.Newf(apperrors.CodeMalformedRecord, "schedule row %d has %d values, expected %d", i+1, len(values), len(rows))
		}
		for j, value := range values {
			day, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return Matrix{}, apperrors.Wrap(err, apperrors.CodeMalformedRecord, "non-integer schedule cell").
					WithField("row", i+1)
			}
			if day < Unassigned || (i == j && day != Unassigned) {
				return Matrix{}, apperrors.Newf(apperrors.CodeMalformedRecord, "invalid day %d at %d-%d", day, i+1, j+1)
			}
			m.cells[i][j] = day
		}
	}
	return m, nil
}

// FromAtoms builds the matrix and the close-game list of one model. Unknown atoms are skipped.
func FromAtoms(teams int, atoms []asp.Atom) (Matrix, []CloseGame, error) {
	m := NewMatrix(teams)
	closeGames := make([]CloseGame, 0)

	for _, atom := range atoms {
		switch atom := atom.(type) {
		case asp.ScheduleAtom:
			if err := m.Assign(atom.Home, atom.Away, atom.Day); err != nil {
				return Matrix{}, nil, err
			}
		case asp.CloseGameAtom:
			closeGames = append(closeGames, CloseGame{Team: atom.Team, DayA: atom.DayA, DayB: atom.DayB, Gap: atom.Gap})
		case asp.UnknownAtom:
		}
	}
	return m, closeGames, nil
}
