// Package translate decomposes packed numeric status codes into human
// readable labels. Heat and water meters commonly sum several alarm
// trigger values into a single decimal code; a rule table reverses that
// sum back into the individual condition labels.
package translate

import (
	"fmt"
	"sort"
	"strings"
)

// Rule maps one trigger value to a label.
type Rule struct {
	Trigger uint64
	Label   string
}

// Table is a stateless, shared rule set for one status field.
type Table struct {
	name     string
	ok       string
	fallback string
	rules    []Rule // sorted by descending trigger
}

// NewTable builds a table. The ok label is emitted for the zero sentinel.
// fallback is a fmt format applied to any remainder no rule covers; when
// empty, remainders render as NAME_<hex>. Rules are copied and ordered by
// descending trigger value.
func NewTable(name, ok, fallback string, rules []Rule) *Table {
	t := &Table{
		name:     name,
		ok:       ok,
		fallback: fallback,
		rules:    append([]Rule(nil), rules...),
	}
	sort.Slice(t.rules, func(i, j int) bool { return t.rules[i].Trigger > t.rules[j].Trigger })
	return t
}

// Decode repeatedly subtracts the largest trigger value that still fits
// into the remaining code and emits its label, until no rule matches.
// Labels are joined in selection order, space separated. A remainder not
// covered by any rule renders through the fallback format, so a raw code
// is never silently discarded.
//
// The greedy largest-first decomposition is order dependent for tables
// with overlapping triggers; any new rule needs an overlap review before
// being added (see DESIGN.md).
func (t *Table) Decode(code uint64) string {
	if code == 0 {
		return t.ok
	}
	var labels []string
	rest := code
	for rest > 0 {
		matched := false
		for _, r := range t.rules {
			if r.Trigger != 0 && r.Trigger <= rest {
				labels = append(labels, r.Label)
				rest -= r.Trigger
				matched = true
				break
			}
		}
		if !matched {
			labels = append(labels, t.leftover(rest))
			break
		}
	}
	return strings.Join(labels, " ")
}

func (t *Table) leftover(rest uint64) string {
	if t.fallback != "" {
		return fmt.Sprintf(t.fallback, rest)
	}
	return fmt.Sprintf("%s_%X", t.name, rest)
}
