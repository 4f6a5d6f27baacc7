package schedule

import (
	"math/rand"
	"testing"

	"github.com/limaJavier/lzcup/pkg/asp"
	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixRoundTrip(t *testing.T) {
	for range 50 {
		//** Arrange
		teams := rand.Intn(12) + 2
		m := NewMatrix(teams)
		for home := 1; home <= teams; home++ {
			for away := 1; away <= teams; away++ {
				if home != away && rand.Intn(4) > 0 {
					require.NoError(t, m.Assign(home, away, rand.Intn(60)))
				}
			}
		}

		//** Act
		parsed, err := ParseMatrix(m.String())

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
		for team := 1; team <= teams; team++ {
			assert.Equal(t, Unassigned, parsed.At(team, team))
		}
	}
}

func TestMatrixString(t *testing.T) {
	m := NewMatrix(3)
	require.NoError(t, m.Assign(1, 2, 0))
	require.NoError(t, m.Assign(3, 1, 5))

	assert.Equal(t, "-1,0,-1;-1,-1,-1;5,-1,-1", m.String())
	assert.Equal(t, []Game{{1, 2, 0}, {3, 1, 5}}, m.Assignments())
	assert.Equal(t, "schedule(3, 1, 5)", m.Assignments()[1].String())
}

func TestMatrixAssignRejects(t *testing.T) {
	m := NewMatrix(2)

	assert.True(t, apperrors.Is(m.Assign(1, 1, 0), apperrors.CodeMalformedAtom))
	assert.True(t, apperrors.Is(m.Assign(0, 1, 0), apperrors.CodeMalformedAtom))
	assert.True(t, apperrors.Is(m.Assign(1, 3, 0), apperrors.CodeMalformedAtom))
	assert.True(t, apperrors.Is(m.Assign(1, 2, -1), apperrors.CodeMalformedAtom))
}

func TestParseMatrixMalformed(t *testing.T) {
	for _, text := range []string{"", "-1,0", "-1,0;1", "0,1;1,-1", "-1,x;0,-1", "-1,-2;0,-1"} {
		_, err := ParseMatrix(text)
		assert.True(t, apperrors.Is(err, apperrors.CodeMalformedRecord), text)
	}
}

func TestFromAtoms(t *testing.T) {
	//** Arrange
	atoms := []asp.Atom{
		asp.ScheduleAtom{Home: 1, Away: 2, Day: 0},
		asp.ScheduleAtom{Home: 2, Away: 1, Day: 2},
		asp.CloseGameAtom{Team: 1, DayA: 0, DayB: 2, Gap: 1},
		asp.UnknownAtom{Symbol: asp.Symbol{Name: "violated", Args: []string{"3"}}},
	}

	//** Act
	m, closeGames, err := FromAtoms(2, atoms)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "-1,0;2,-1", m.String())
	assert.Equal(t, []CloseGame{{Team: 1, DayA: 0, DayB: 2, Gap: 1}}, closeGames)
}

func TestFromAtomsOutOfRange(t *testing.T) {
	_, _, err := FromAtoms(2, []asp.Atom{asp.ScheduleAtom{Home: 1, Away: 5, Day: 0}})

	assert.True(t, apperrors.Is(err, apperrors.CodeMalformedAtom))
}
