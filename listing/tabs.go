package listing

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// TabDefinition is one badge/tab of a list screen.
type TabDefinition struct {
	Id       string   `json:"id" validate:"required"`
	Label    string   `json:"label" validate:"required"`
	Statuses []string `json:"statuses,omitempty"`
	// Match overrides Statuses when set.
	Match func(status string) bool `json:"-"`
}

// Matches reports whether a (non-empty) status belongs to the tab.
func (t TabDefinition) Matches(status string) bool {
	if t.Match != nil {
		return t.Match(status)
	}
	return slices.Contains(t.Statuses, status)
}

// AnyStatus matches every status. Used for "all" style tabs.
func AnyStatus(string) bool { return true }

// TabSet is the ordered tab list of a screen. Records without a status are
// members of DefaultTab only.
type TabSet struct {
	Tabs       []TabDefinition `json:"tabs" validate:"dive"`
	DefaultTab string          `json:"default_tab"`
}

// NewTabSet builds a tab set whose default tab is defaultTab.
func NewTabSet(defaultTab string, tabs ...TabDefinition) TabSet {
	return TabSet{Tabs: tabs, DefaultTab: defaultTab}
}

// Empty reports whether the screen has no tabs at all.
func (s TabSet) Empty() bool { return len(s.Tabs) == 0 }

// First returns the id of the first tab in display order.
func (s TabSet) First() string {
	if len(s.Tabs) == 0 {
		return ""
	}
	return s.Tabs[0].Id
}

// Ids returns the tab ids in display order.
func (s TabSet) Ids() []string {
	out := make([]string, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		out = append(out, t.Id)
	}
	return out
}

// Lookup finds a tab by id.
func (s TabSet) Lookup(id string) (TabDefinition, bool) {
	for _, t := range s.Tabs {
		if t.Id == id {
			return t, true
		}
	}
	return TabDefinition{}, false
}

// Member reports whether a record with the given status belongs to tab.
func (s TabSet) Member(tab TabDefinition, status string) bool {
	if status == "" {
		return tab.Id == s.DefaultTab
	}
	return tab.Matches(status)
}

// Validate checks required fields, unique ids and that the default tab exists.
func (s TabSet) Validate() error {
	if s.Empty() {
		return nil
	}
	if err := validate.Struct(s); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(s.Tabs))
	for _, t := range s.Tabs {
		if _, dup := seen[t.Id]; dup {
			return fmt.Errorf("duplicate tab id %q", t.Id)
		}
		seen[t.Id] = struct{}{}
	}
	if s.DefaultTab == "" {
		return errors.New("default tab is required")
	}
	if _, ok := seen[s.DefaultTab]; !ok {
		return fmt.Errorf("default tab %q is not defined", s.DefaultTab)
	}
	return nil
}
