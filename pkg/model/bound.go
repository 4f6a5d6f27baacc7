package model

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// SchedulableBound is an optimistic upper bound on the games that fit the availability
// grid when every slot hosts at most one game. It is the size of a maximum matching
// between ordered pairs and slots, where (home, away) may use slot d unless either
// team is forbidden on d or the away team is forced to play at home on d.
func SchedulableBound(instance Instance) (int, error) {
	pairings := make([]Pairing, 0, instance.Games())
	for home := 1; home <= instance.Teams; home++ {
		for away := 1; away <= instance.Teams; away++ {
			if home != away {
				pairings = append(pairings, Pairing{Home: home, Away: away})
			}
		}
	}

	// Slots where nobody may play cannot host anything
	slots := lo.Filter(lo.Range(instance.Days), func(day int, _ int) bool {
		return lo.CountBy(instance.Availability[day], func(status Availability) bool { return status != Forbidden }) >= 2
	})
	if len(slots) == 0 || len(pairings) == 0 {
		return 0, nil
	}

	neighbors := func(pairingAny any, dayAny any) (bool, error) {
		pairing, day := pairingAny.(Pairing), dayAny.(int)
		return instance.At(pairing.Home, day) != Forbidden &&
			instance.At(pairing.Away, day) == Free, nil
	}

	pairingsAny := lo.Map(pairings, func(pairing Pairing, _ int) any { return pairing })
	slotsAny := lo.Map(slots, func(day int, _ int) any { return day })

	graph, err := bipartitegraph.NewBipartiteGraph(pairingsAny, slotsAny, neighbors)
	if err != nil {
		return 0, err
	}
	return len(graph.LargestMatching()), nil
}
