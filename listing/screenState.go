package listing

// State is an immutable snapshot of a list screen. Reduce never changes a
// State in place; it returns the next one.
//
// Merged is always Merge(Baseline, live) for the last live snapshot, with
// Edits laid over it. Edits holds the latest optimistic version of each
// record changed by Toggle or Transition.
type State[R Record] struct {
	Baseline []R
	Merged   []R
	Edits    []R
	Filter   FilterState
	Revision int
}

// NewState merges the initial live snapshot over baseline and starts with
// the default filter state.
func NewState[R Record](baseline, live []R, tabs TabSet) State[R] {
	return State[R]{
		Baseline: baseline,
		Merged:   Merge(baseline, live),
		Filter:   NewFilterState(tabs),
	}
}

// Action is a user or data event applied by Reduce.
type Action interface {
	actionName() string
}

type SetSearch struct{ Term string }

type SelectCategory struct{ Category string }

type SelectTab struct{ TabId string }

type Toggle struct{ Id, Field string }

type Transition struct{ Id, Field, Value string }

// ClearFilters returns search and category to their defaults and keeps the
// active tab.
type ClearFilters struct{}

// LiveRefreshed carries a fresh live snapshot. The collection is recomputed
// from the baseline and the snapshot, so records the live source dropped
// disappear or revert to their baseline. Optimistic edits survive only for
// baseline records the snapshot does not carry.
type LiveRefreshed[R Record] struct{ Records []R }

func (SetSearch) actionName() string        { return "set_search" }
func (SelectCategory) actionName() string   { return "select_category" }
func (SelectTab) actionName() string        { return "select_tab" }
func (Toggle) actionName() string           { return "toggle" }
func (Transition) actionName() string       { return "transition" }
func (ClearFilters) actionName() string     { return "clear_filters" }
func (LiveRefreshed[R]) actionName() string { return "live_refreshed" }

// ActionName returns the wire name of an action, for logs and metrics.
func ActionName(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}

// Reduce applies a to s. Unknown actions, and actions that change nothing,
// return s unchanged with the same revision.
func Reduce[R MutableRecord[R]](s State[R], a Action) State[R] {
	next := s
	switch act := a.(type) {
	case SetSearch:
		if act.Term == s.Filter.SearchTerm {
			return s
		}
		next.Filter.SearchTerm = act.Term
	case SelectCategory:
		category := act.Category
		if category == "" {
			category = AllCategories
		}
		if category == s.Filter.CategorySelector {
			return s
		}
		next.Filter.CategorySelector = category
	case SelectTab:
		if act.TabId == s.Filter.ActiveTab {
			return s
		}
		next.Filter.ActiveTab = act.TabId
	case Toggle:
		merged := ApplyToggle(s.Merged, act.Id, act.Field)
		if sameBacking(merged, s.Merged) {
			return s
		}
		next.Merged = merged
		next.Edits = recordEdit(s.Edits, merged, act.Id)
	case Transition:
		merged := ApplyTransition(s.Merged, act.Id, act.Field, act.Value)
		if sameBacking(merged, s.Merged) {
			return s
		}
		next.Merged = merged
		next.Edits = recordEdit(s.Edits, merged, act.Id)
	case ClearFilters:
		if s.Filter.SearchTerm == "" && s.Filter.CategorySelector == AllCategories {
			return s
		}
		next.Filter.SearchTerm = ""
		next.Filter.CategorySelector = AllCategories
	case LiveRefreshed[R]:
		next.Merged, next.Edits = refresh(s.Baseline, act.Records, s.Edits)
	default:
		return s
	}
	next.Revision = s.Revision + 1
	return next
}

// recordEdit returns a copy of edits holding the current version of id from
// merged.
func recordEdit[R Record](edits, merged []R, id string) []R {
	edited, ok := Find(merged, id)
	if !ok {
		return edits
	}
	out := make([]R, 0, len(edits)+1)
	for _, e := range edits {
		if e.GetId() != id {
			out = append(out, e)
		}
	}
	return append(out, edited)
}

// refresh merges live over baseline and re-applies the edits whose record
// is still baseline-only. Edits to records now carried by live, or no longer
// present at all, are dropped.
func refresh[R Record](baseline, live, edits []R) ([]R, []R) {
	merged := Merge(baseline, live)
	if len(edits) == 0 {
		return merged, nil
	}

	liveIds := make(map[string]struct{}, len(live))
	for _, r := range live {
		liveIds[r.GetId()] = struct{}{}
	}
	index := make(map[string]int, len(merged))
	for i, r := range merged {
		index[r.GetId()] = i
	}

	var kept []R
	for _, e := range edits {
		id := e.GetId()
		if _, isLive := liveIds[id]; isLive {
			continue
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		merged[i] = e
		kept = append(kept, e)
	}
	return merged, kept
}

// sameBacking reports whether the mutator handed back its input untouched.
func sameBacking[R any](a, b []R) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
