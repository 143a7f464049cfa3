package listing

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// AllCategories is the wildcard category selector.
const AllCategories = "all"

const (
	defaultStatusField   = "status"
	defaultCategoryField = "category"
)

// FilterState is the screen-owned narrowing of a list.
type FilterState struct {
	SearchTerm       string `json:"search_term"`
	CategorySelector string `json:"category"`
	ActiveTab        string `json:"active_tab"`
}

// NewFilterState returns the initial state of a screen: no search, every
// category, first tab active.
func NewFilterState(tabs TabSet) FilterState {
	return FilterState{
		CategorySelector: AllCategories,
		ActiveTab:        tabs.First(),
	}
}

// Pipeline holds the per-screen configuration of the filter steps.
type Pipeline[R Record] struct {
	Labels        LabelChain
	StatusField   string
	CategoryField string
	Tabs          TabSet
}

func (p Pipeline[R]) statusField() string {
	if p.StatusField == "" {
		return defaultStatusField
	}
	return p.StatusField
}

func (p Pipeline[R]) categoryField() string {
	if p.CategoryField == "" {
		return defaultCategoryField
	}
	return p.CategoryField
}

// Status returns the status of r, "" when missing.
func (p Pipeline[R]) Status(r R) string {
	v, _ := r.FieldValue(p.statusField())
	return v
}

// Label returns the resolved label of r.
func (p Pipeline[R]) Label(r R) string {
	return p.Labels.Resolve(r)
}

type step[R Record] func(R) bool

// Filter returns the records of collection that pass every step for state.
// The sequence is lazy and can be ranged over any number of times; each pass
// reads collection afresh and has no side effects.
func (p Pipeline[R]) Filter(collection []R, state FilterState) iter.Seq[R] {
	var tab *TabDefinition
	if !p.Tabs.Empty() {
		t, ok := p.Tabs.Lookup(state.ActiveTab)
		if !ok {
			return func(func(R) bool) {}
		}
		tab = &t
	}

	return func(yield func(R) bool) {
		steps := p.steps(state, tab)
		for _, r := range collection {
			if !passes(steps, r) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Visible is Filter collected into a slice.
func (p Pipeline[R]) Visible(collection []R, state FilterState) []R {
	return Collect(p.Filter(collection, state))
}

// steps builds the active steps for one pass over the collection.
func (p Pipeline[R]) steps(state FilterState, tab *TabDefinition) []step[R] {
	var steps []step[R]

	if term := strings.TrimSpace(state.SearchTerm); term != "" {
		folder := cases.Fold()
		needle := folder.String(term)
		steps = append(steps, func(r R) bool {
			label := p.Labels.Resolve(r)
			if label == "" {
				return false
			}
			return strings.Contains(folder.String(label), needle)
		})
	}

	if sel := state.CategorySelector; sel != "" && sel != AllCategories {
		field := p.categoryField()
		steps = append(steps, func(r R) bool {
			v, ok := r.FieldValue(field)
			return ok && v == sel
		})
	}

	if tab != nil {
		t := *tab
		steps = append(steps, func(r R) bool {
			return p.Tabs.Member(t, p.Status(r))
		})
	}
	return steps
}

func passes[R Record](steps []step[R], r R) bool {
	for _, s := range steps {
		if !s(r) {
			return false
		}
	}
	return true
}

// Collect materialises a sequence. It never returns nil so that an empty
// result serialises as an empty list.
func Collect[R any](seq iter.Seq[R]) []R {
	out := slices.Collect(seq)
	if out == nil {
		return []R{}
	}
	return out
}
