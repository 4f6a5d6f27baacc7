package model

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/samber/lo"
)

// Unscheduled marks a calendar cell without a fixed day.
const Unscheduled = -1

// Pairing is an ordered (home, away) pair of 1-indexed teams.
type Pairing struct {
	Home, Away int
}

// CalendarSeed holds the games already fixed to a day by an existing partial schedule.
type CalendarSeed struct {
	Teams int
	Days  map[Pairing]int
}

// Pairings returns the seeded pairs ordered by home team, then away team.
func (seed CalendarSeed) Pairings() []Pairing {
	pairings := lo.Keys(seed.Days)
	slices.SortFunc(pairings, func(a, b Pairing) int {
		if a.Home != b.Home {
			return a.Home - b.Home
		}
		return a.Away - b.Away
	})
	return pairings
}

// Validate checks the seed against the instance it will constrain.
func (seed CalendarSeed) Validate(instance Instance, source string) error {
	if seed.Teams != instance.Teams {
		return apperrors.MalformedCalendar(source, 0, fmt.Sprintf("calendar has %d teams, instance has %d", seed.Teams, instance.Teams))
	}
	for _, pairing := range seed.Pairings() {
		if day := seed.Days[pairing]; day >= instance.Days {
			return apperrors.MalformedCalendar(source, pairing.Home, fmt.Sprintf("day %d of game %d-%d is outside the %d available days", day, pairing.Home, pairing.Away, instance.Days))
		}
	}
	return nil
}

func CalendarFromFile(path string, teams int) (CalendarSeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return CalendarSeed{}, apperrors.MalformedCalendar(path, 0, "cannot open file").WithCause(err)
	}
	defer file.Close()

	return ParseCalendar(file, path, teams)
}

// ParseCalendar reads one tab-separated row of days per home team. A seed is returned
// only when every row is well formed.
func ParseCalendar(r io.Reader, source string, teams int) (CalendarSeed, error) {
	lines, err := readLines(r)
	if err != nil {
		return CalendarSeed{}, apperrors.MalformedCalendar(source, 0, "cannot read input").WithCause(err)
	}

	last := len(lines)
	for last > 0 && strings.TrimSpace(lines[last-1]) == "" {
		last--
	}
	if last != teams {
		return CalendarSeed{}, apperrors.MalformedCalendar(source, last, fmt.Sprintf("expected %d rows, found %d", teams, last))
	}

	seed := CalendarSeed{Teams: teams, Days: make(map[Pairing]int)}
	for i, line := range lines[:last] {
		home := i + 1
		tokens := strings.Split(strings.TrimSpace(line), "\t")
		if len(tokens) != teams {
			return CalendarSeed{}, apperrors.MalformedCalendar(source, home, fmt.Sprintf("expected %d days, found %d", teams, len(tokens)))
		}

		for j, token := range tokens {
			away := j + 1
			day, err := strconv.Atoi(strings.TrimSpace(token))
			if err != nil {
				return CalendarSeed{}, apperrors.MalformedCalendar(source, home, fmt.Sprintf("day %q of game %d-%d is not an integer", token, home, away))
			}
			if day < Unscheduled {
				return CalendarSeed{}, apperrors.MalformedCalendar(source, home, fmt.Sprintf("day %d of game %d-%d is negative", day, home, away))
			}
			if home == away && day != Unscheduled {
				return CalendarSeed{}, apperrors.MalformedCalendar(source, home, fmt.Sprintf("team %d cannot play itself", home))
			}
			if day != Unscheduled {
				seed.Days[Pairing{Home: home, Away: away}] = day
			}
		}
	}

	return seed, nil
}
