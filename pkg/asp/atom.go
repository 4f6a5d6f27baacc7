package asp

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
)

// Symbol is a shown atom as printed by the solver. Arguments are kept as raw terms.
type Symbol struct {
	Name string
	Args []string
}

func (s Symbol) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return fmt.Sprintf("%s(%s)", s.Name, strings.Join(s.Args, ","))
}

// Atom is the closed set of solver output relations the orchestration layer understands.
type Atom interface {
	atom()
}

// ScheduleAtom is schedule(Home, Away, Day).
type ScheduleAtom struct {
	Home, Away, Day int
}

// CloseGameAtom is close_game(Team, DayA, DayB, Gap).
type CloseGameAtom struct {
	Team, DayA, DayB, Gap int
}

// UnknownAtom is any other shown atom. Consumers skip it.
type UnknownAtom struct {
	Symbol Symbol
}

func (ScheduleAtom) atom()  {}
func (CloseGameAtom) atom() {}
func (UnknownAtom) atom()   {}

var arities = map[string]int{
	PredicateSchedule:  3,
	PredicateCloseGame: 4,
}

// Decode maps a symbol onto its typed atom. Known relations with the wrong arity or
// non-integer arguments fail with CodeMalformedAtom.
func Decode(symbol Symbol) (Atom, error) {
	arity, known := arities[symbol.Name]
	if !known {
		return UnknownAtom{Symbol: symbol}, nil
	}
	if len(symbol.Args) != arity {
		return nil, apperrors.Newf(apperrors.CodeMalformedAtom, "%s expects %d arguments, got %d", symbol.Name, arity, len(symbol.Args)).
			WithField("atom", symbol.String())
	}

	values := make([]int, arity)
	for i, arg := range symbol.Args {
		value, err := strconv.Atoi(arg)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeMalformedAtom, "non-integer argument").
				WithField("atom", symbol.String())
		}
		values[i] = value
	}

	switch symbol.Name {
	case PredicateSchedule:
		return ScheduleAtom{Home: values[0], Away: values[1], Day: values[2]}, nil
	default:
		return CloseGameAtom{Team: values[0], DayA: values[1], DayB: values[2], Gap: values[3]}, nil
	}
}

// DecodeAll decodes every symbol, stopping at the first malformed one.
func DecodeAll(symbols []Symbol) ([]Atom, error) {
	atoms := make([]Atom, 0, len(symbols))
	for _, symbol := range symbols {
		atom, err := Decode(symbol)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}

// ParseSymbols splits an answer line such as `schedule(1,2,3) foo("a b")` into symbols.
// Spaces inside parentheses or quoted strings do not separate atoms.
func ParseSymbols(line string) ([]Symbol, error) {
	symbols := make([]Symbol, 0)
	for _, token := range splitTopLevel(strings.TrimSpace(line), ' ') {
		if token == "" {
			continue
		}
		symbol, err := ParseSymbol(token)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}

func ParseSymbol(text string) (Symbol, error) {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return Symbol{Name: text}, nil
	}
	if !strings.HasSuffix(text, ")") || open == 0 {
		return Symbol{}, apperrors.New(apperrors.CodeMalformedAtom, "unbalanced term").WithField("atom", text)
	}

	args := splitTopLevel(text[open+1:len(text)-1], ',')
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return Symbol{Name: text[:open], Args: args}, nil
}

// splitTopLevel splits on sep outside of parentheses and double-quoted strings.
func splitTopLevel(text string, sep byte) []string {
	parts := make([]string, 0)
	depth, quoted, escaped, start := 0, false, false, 0

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}
