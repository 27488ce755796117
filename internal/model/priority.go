package model

import (
	"fmt"
	"strings"
)

// Priority is one of a fixed set of levels.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every level, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts a level name in any case, or its first letter.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q (want low, medium or high)", s)
}

func (p Priority) Valid() bool { return p.Rank() >= 0 }

// Rank orders levels: low 0, medium 1, high 2, unknown -1.
func (p Priority) Rank() int {
	for i, lvl := range Priorities {
		if lvl == p {
			return i
		}
	}
	return -1
}

// Next returns the next level up, wrapping to low.
func (p Priority) Next() Priority {
	return Priorities[(p.Rank()+1)%len(Priorities)]
}

// Prev returns the next level down, wrapping to high.
func (p Priority) Prev() Priority {
	r := p.Rank()
	if r <= 0 {
		return Priorities[len(Priorities)-1]
	}
	return Priorities[r-1]
}

// Raise moves one level up, stopping at high.
func (p Priority) Raise() Priority {
	if r := p.Rank(); r >= 0 && r < len(Priorities)-1 {
		return Priorities[r+1]
	}
	return p
}

// Lower moves one level down, stopping at low.
func (p Priority) Lower() Priority {
	if r := p.Rank(); r > 0 {
		return Priorities[r-1]
	}
	return p
}

func (p Priority) String() string { return string(p) }
