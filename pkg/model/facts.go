package model

import "github.com/limaJavier/lzcup/pkg/asp"

// CompileFacts builds the solver input for instance: time and team facts, one
// availability fact per non-free cell and one schedule fact per seeded game.
func CompileFacts(instance Instance, seed *CalendarSeed) asp.FactSet {
	facts := make(asp.FactSet, 0, instance.Days+instance.Teams)

	for day := range instance.Days {
		facts = append(facts, asp.Time(day))
	}
	for team := 1; team <= instance.Teams; team++ {
		facts = append(facts, asp.Team(team))
	}

	for day, row := range instance.Availability {
		for i, status := range row {
			switch status {
			case ForcedHome:
				facts = append(facts, asp.Home(i+1, day))
			case Forbidden:
				facts = append(facts, asp.Forbidden(i+1, day))
			}
		}
	}

	if seed != nil {
		for _, pairing := range seed.Pairings() {
			facts = append(facts, asp.Schedule(pairing.Home, pairing.Away, seed.Days[pairing]))
		}
	}

	return facts
}
