package asp

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Predicates understood by the league encoding.
const (
	PredicateTime      = "time"
	PredicateTeam      = "team"
	PredicateHome      = "home"
	PredicateForbidden = "forbidden"
	PredicateSchedule  = "schedule"
	PredicateCloseGame = "close_game"
)

// Fact is a ground atom with integer arguments.
type Fact struct {
	Predicate string
	Args      []int
}

func Time(day int) Fact {
	return Fact{Predicate: PredicateTime, Args: []int{day}}
}

func Team(team int) Fact {
	return Fact{Predicate: PredicateTeam, Args: []int{team}}
}

func Home(team, day int) Fact {
	return Fact{Predicate: PredicateHome, Args: []int{team, day}}
}

func Forbidden(team, day int) Fact {
	return Fact{Predicate: PredicateForbidden, Args: []int{team, day}}
}

func Schedule(home, away, day int) Fact {
	return Fact{Predicate: PredicateSchedule, Args: []int{home, away, day}}
}

// String renders the fact in the solver's textual form, e.g. "home(3,12).".
func (f Fact) String() string {
	if len(f.Args) == 0 {
		return f.Predicate + "."
	}
	args := lo.Map(f.Args, func(arg int, _ int) string { return fmt.Sprint(arg) })
	return fmt.Sprintf("%s(%s).", f.Predicate, strings.Join(args, ","))
}

type FactSet []Fact

// Program serialises the facts, one per line, as solver input.
func (facts FactSet) Program() string {
	var builder strings.Builder
	for _, fact := range facts {
		builder.WriteString(fact.String())
		builder.WriteByte('\n')
	}
	return builder.String()
}

func (facts FactSet) Count(predicate string) int {
	return lo.CountBy(facts, func(fact Fact) bool { return fact.Predicate == predicate })
}
