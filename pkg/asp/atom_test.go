package asp

import (
	"testing"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbols(t *testing.T) {
	symbols, err := ParseSymbols(`schedule(1,2,3) close_game(1,3,4,1) flag label("a b",f(1,2))`)

	require.NoError(t, err)
	require.Len(t, symbols, 4)
	assert.Equal(t, Symbol{Name: "schedule", Args: []string{"1", "2", "3"}}, symbols[0])
	assert.Equal(t, Symbol{Name: "close_game", Args: []string{"1", "3", "4", "1"}}, symbols[1])
	assert.Equal(t, Symbol{Name: "flag"}, symbols[2])
	assert.Equal(t, Symbol{Name: "label", Args: []string{`"a b"`, "f(1,2)"}}, symbols[3])
}

func TestParseSymbolsEmptyLine(t *testing.T) {
	symbols, err := ParseSymbols("")

	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestParseSymbolUnbalanced(t *testing.T) {
	_, err := ParseSymbol("schedule(1,2")

	assert.True(t, apperrors.Is(err, apperrors.CodeMalformedAtom))
}

func TestDecode(t *testing.T) {
	t.Run("schedule", func(t *testing.T) {
		atom, err := Decode(Symbol{Name: "schedule", Args: []string{"2", "1", "7"}})
		require.NoError(t, err)
		assert.Equal(t, ScheduleAtom{Home: 2, Away: 1, Day: 7}, atom)
	})

	t.Run("close game", func(t *testing.T) {
		atom, err := Decode(Symbol{Name: "close_game", Args: []string{"3", "10", "12", "2"}})
		require.NoError(t, err)
		assert.Equal(t, CloseGameAtom{Team: 3, DayA: 10, DayB: 12, Gap: 2}, atom)
	})

	t.Run("unknown relation is kept as unknown", func(t *testing.T) {
		symbol := Symbol{Name: "unscheduled", Args: []string{"1", "2"}}
		atom, err := Decode(symbol)
		require.NoError(t, err)
		assert.Equal(t, UnknownAtom{Symbol: symbol}, atom)
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := Decode(Symbol{Name: "schedule", Args: []string{"1", "2"}})
		assert.True(t, apperrors.Is(err, apperrors.CodeMalformedAtom))
	})

	t.Run("non integer argument", func(t *testing.T) {
		_, err := Decode(Symbol{Name: "close_game", Args: []string{"a", "1", "2", "1"}})
		assert.True(t, apperrors.Is(err, apperrors.CodeMalformedAtom))
	})
}

func TestDecodeAllStopsAtMalformed(t *testing.T) {
	_, err := DecodeAll([]Symbol{
		{Name: "schedule", Args: []string{"1", "2", "0"}},
		{Name: "schedule", Args: []string{"1"}},
	})

	assert.Error(t, err)
}
