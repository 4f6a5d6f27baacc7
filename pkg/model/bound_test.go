package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulableBound(t *testing.T) {
	scenarios := []struct {
		name     string
		instance Instance
		expected int
	}{
		{
			name:     "enough free slots",
			instance: Instance{Days: 3, Teams: 2, Availability: [][]Availability{{0, 0}, {0, 0}, {0, 0}}},
			expected: 2,
		},
		{
			name:     "fewer slots than games",
			instance: Instance{Days: 1, Teams: 3, Availability: [][]Availability{{0, 0, 0}}},
			expected: 1,
		},
		{
			name:     "forbidden team blocks every slot",
			instance: Instance{Days: 2, Teams: 2, Availability: [][]Availability{{2, 0}, {0, 2}}},
			expected: 0,
		},
		{
			name:     "forced home team never plays away",
			instance: Instance{Days: 3, Teams: 2, Availability: [][]Availability{{1, 0}, {1, 0}, {1, 0}}},
			expected: 1,
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			bound, err := SchedulableBound(scenario.instance)

			require.NoError(t, err)
			assert.Equal(t, scenario.expected, bound)
		})
	}
}
