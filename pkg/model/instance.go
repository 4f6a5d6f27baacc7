package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
)

type Availability uint8

const (
	Free       Availability = 0
	ForcedHome Availability = 1
	Forbidden  Availability = 2
)

// Instance is one league's availability grid. Teams are numbered from 1, days from 0.
type Instance struct {
	Days         int
	Teams        int
	Availability [][]Availability // Availability[day][team-1]
}

func (instance Instance) At(team, day int) Availability {
	return instance.Availability[day][team-1]
}

// Games returns the number of ordered pairs, i.e. the games of a full double round-robin.
func (instance Instance) Games() int {
	return instance.Teams * (instance.Teams - 1)
}

// InstancePath returns the conventional location of instance id inside dir.
func InstancePath(dir string, id int) string {
	return filepath.Join(dir, fmt.Sprintf("Input%d.txt", id))
}

func InstanceFromFile(path string) (Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return Instance{}, apperrors.MalformedInstance(path, 0, "cannot open file").WithCause(err)
	}
	defer file.Close()

	return ParseInstance(file, path)
}

// ParseInstance reads the day count, the team count and one availability row per day.
// source names the input in error messages.
func ParseInstance(r io.Reader, source string) (Instance, error) {
	lines, err := readLines(r)
	if err != nil {
		return Instance{}, apperrors.MalformedInstance(source, 0, "cannot read input").WithCause(err)
	}
	if len(lines) < 2 {
		return Instance{}, apperrors.MalformedInstance(source, len(lines), "missing day and team counts")
	}

	days, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Instance{}, apperrors.MalformedInstance(source, 1, fmt.Sprintf("day count %q is not an integer", lines[0]))
	}
	teams, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return Instance{}, apperrors.MalformedInstance(source, 2, fmt.Sprintf("team count %q is not an integer", lines[1]))
	}
	if days < 1 {
		return Instance{}, apperrors.MalformedInstance(source, 1, fmt.Sprintf("day count must be at least 1, got %d", days))
	}
	if teams < 2 {
		return Instance{}, apperrors.MalformedInstance(source, 2, fmt.Sprintf("team count must be at least 2, got %d", teams))
	}

	// Trailing blank lines are tolerated, anything else past the grid is not
	last := len(lines)
	for last > 2 && strings.TrimSpace(lines[last-1]) == "" {
		last--
	}
	if last < 2+days {
		return Instance{}, apperrors.MalformedInstance(source, last, fmt.Sprintf("expected %d availability rows, found %d", days, last-2))
	}
	if last > 2+days {
		return Instance{}, apperrors.MalformedInstance(source, 2+days+1, fmt.Sprintf("unexpected content after %d availability rows", days))
	}

	availability := make([][]Availability, days)
	for day := range days {
		lineNumber := day + 3
		fields := strings.Fields(lines[day+2])
		if len(fields) != teams {
			return Instance{}, apperrors.MalformedInstance(source, lineNumber, fmt.Sprintf("expected %d values, found %d", teams, len(fields)))
		}

		availability[day] = make([]Availability, teams)
		for team, field := range fields {
			value, err := strconv.Atoi(field)
			if err != nil || value < int(Free) || value > int(Forbidden) {
				return Instance{}, apperrors.MalformedInstance(source, lineNumber, fmt.Sprintf("availability %q of team %d is not one of 0, 1, 2", field, team+1))
			}
			availability[day][team] = Availability(value)
		}
	}

	return Instance{Days: days, Teams: teams, Availability: availability}, nil
}

func readLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	return lines, scanner.Err()
}
