package workflow

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Machine is a declarative transition table over a string-backed status type.
type Machine[S ~string] struct {
	edges map[S][]S
}

// Transition is a single legal edge.
type Transition[S ~string] struct {
	From S
	To   S
}

// NewMachine builds a machine from its legal edges.
func NewMachine[S ~string](transitions ...Transition[S]) Machine[S] {
	edges := make(map[S][]S, len(transitions))
	for _, t := range transitions {
		edges[t.From] = append(edges[t.From], t.To)
	}
	return Machine[S]{edges: edges}
}

// Can reports whether from -> to is a legal transition.
func (m Machine[S]) Can(from, to S) bool {
	for _, next := range m.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Sources returns every status that may legally move into to, sorted.
func (m Machine[S]) Sources(to S) []S {
	var sources []S
	seen := make(map[S]bool)
	for from, nexts := range m.edges {
		for _, next := range nexts {
			if next == to && !seen[from] {
				seen[from] = true
				sources = append(sources, from)
			}
		}
	}
	slices.Sort(sources)
	return sources
}

// IsTerminal reports whether no transition leaves s.
func (m Machine[S]) IsTerminal(s S) bool {
	return len(m.edges[s]) == 0
}

// RequireText trims value and rejects it when empty or longer than maxLen runes.
func RequireText(field, value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Field: field, Message: "is required"}
	}
	if maxLen > 0 && utf8.RuneCountInString(trimmed) > maxLen {
		return "", &ValidationError{Field: field, Message: "is too long"}
	}
	return trimmed, nil
}
