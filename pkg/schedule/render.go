package schedule

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// RenderLines formats one line per home team. With colorize, unassigned cells are blue
// and conflicting cells red, underlined when both teams conflict and bold when the gap is 1.
func RenderLines(m Matrix, index ConflictIndex, colorize bool) []string {
	lines := make([]string, 0, m.Teams())
	for home := 1; home <= m.Teams(); home++ {
		cells := make([]string, 0, m.Teams())
		for away := 1; away <= m.Teams(); away++ {
			day := m.At(home, away)
			text := fmt.Sprintf("%3d", day)
			if colorize {
				text = paint(text, cellAttributes(day, Decorate(home, away, day, index)))
			}
			cells = append(cells, text)
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func cellAttributes(day int, decoration Decoration) []color.Attribute {
	if day == Unassigned {
		return []color.Attribute{color.FgBlue}
	}

	attributes := make([]color.Attribute, 0, 3)
	if decoration.Conflict() {
		attributes = append(attributes, color.FgRed)
	}
	if decoration.Both() {
		attributes = append(attributes, color.Underline)
	}
	if decoration.Severe() {
		attributes = append(attributes, color.Bold)
	}
	return attributes
}

// paint emits escape codes even when the output is not a terminal; callers opt in.
func paint(text string, attributes []color.Attribute) string {
	if len(attributes) == 0 {
		return text
	}
	c := color.New(attributes...)
	c.EnableColor()
	return c.Sprint(text)
}
