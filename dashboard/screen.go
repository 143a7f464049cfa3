package dashboard

import (
	"context"
	"fmt"
	"sort"

	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
)

// Column is a record field rendered in rows and exports.
type Column struct {
	Field string `json:"field" validate:"required"`
	Title string `json:"title" validate:"required"`
}

// ScreenSpec is the static configuration of one list screen over R.
type ScreenSpec[R listing.MutableRecord[R]] struct {
	Role    Role   `validate:"required,oneof=vendor delivery admin"`
	Name    string `validate:"required"`
	Title   string `validate:"required"`
	Fixture string `validate:"required"`
	// Load reads the baseline collection named by Fixture.
	Load          func(name string) ([]R, error) `validate:"required"`
	Labels        listing.LabelChain             `validate:"min=1,dive,required"`
	CategoryField string
	Tabs          listing.TabSet
	// AmountField is summed per tab. Empty disables badge totals.
	AmountField string
	Columns     []Column `validate:"min=1,dive"`
	Toggles     []string
}

func (s ScreenSpec[R]) Key() string {
	return ScreenKey(s.Role, s.Name)
}

func (s ScreenSpec[R]) Validate() error {
	if err := utils.ValidateStruct(s); err != nil {
		return err
	}
	return s.Tabs.Validate()
}

type TabInfo struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

// ScreenInfo describes a screen to clients before a session is opened.
type ScreenInfo struct {
	Key        string    `json:"key"`
	Role       Role      `json:"role"`
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Tabs       []TabInfo `json:"tabs"`
	DefaultTab string    `json:"default_tab,omitempty"`
	Columns    []Column  `json:"columns"`
	Toggles    []string  `json:"toggles,omitempty"`
	Live       bool      `json:"live"`
}

// Screen hides the record type of a screen from the session manager and the
// HTTP layer.
type Screen interface {
	Info() ScreenInfo
	Open(ctx context.Context, id string, opts SessionOptions) Session
}

type screen[R listing.MutableRecord[R]] struct {
	spec     ScreenSpec[R]
	pipeline listing.Pipeline[R]
	baseline []R
	live     listing.LiveSource[R]
}

func newScreen[R listing.MutableRecord[R]](spec ScreenSpec[R], live listing.LiveSource[R]) (*screen[R], error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("screen %s: %w", spec.Key(), err)
	}
	baseline, err := spec.Load(spec.Fixture)
	if err != nil {
		return nil, fmt.Errorf("screen %s: %w", spec.Key(), err)
	}
	return &screen[R]{
		spec: spec,
		pipeline: listing.Pipeline[R]{
			Labels:        spec.Labels,
			CategoryField: spec.CategoryField,
			Tabs:          spec.Tabs,
		},
		baseline: baseline,
		live:     live,
	}, nil
}

func (s *screen[R]) Info() ScreenInfo {
	tabs := make([]TabInfo, 0, len(s.spec.Tabs.Tabs))
	for _, t := range s.spec.Tabs.Tabs {
		tabs = append(tabs, TabInfo{Id: t.Id, Label: t.Label})
	}
	return ScreenInfo{
		Key:        s.spec.Key(),
		Role:       s.spec.Role,
		Name:       s.spec.Name,
		Title:      s.spec.Title,
		Tabs:       tabs,
		DefaultTab: s.spec.Tabs.DefaultTab,
		Columns:    s.spec.Columns,
		Toggles:    s.spec.Toggles,
		Live:       s.live != nil,
	}
}

func (s *screen[R]) snapshot(ctx context.Context) []R {
	if s.live == nil {
		return nil
	}
	return s.live.Snapshot(ctx)
}

func (s *screen[R]) categoryField() string {
	if s.spec.CategoryField == "" {
		return models.FieldCategory
	}
	return s.spec.CategoryField
}

// categories lists the category selector values, "all" first.
func (s *screen[R]) categories(records []R) []string {
	field := s.categoryField()
	seen := make(map[string]struct{})
	var values []string
	for _, r := range records {
		v, ok := r.FieldValue(field)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{listing.AllCategories}, values...)
}

// Row is the rendered form of one record.
type Row struct {
	Id     string            `json:"id"`
	Label  string            `json:"label"`
	Fields map[string]string `json:"fields"`
}

func (s *screen[R]) row(r R) Row {
	fields := make(map[string]string, len(s.spec.Columns))
	for _, c := range s.spec.Columns {
		if v, ok := r.FieldValue(c.Field); ok {
			fields[c.Field] = v
		}
	}
	return Row{Id: r.GetId(), Label: s.pipeline.Label(r), Fields: fields}
}

// exportRow renders amount columns as numbers so spreadsheets can sum them.
func (s *screen[R]) exportRow(r R) []any {
	out := make([]any, 0, len(s.spec.Columns)+2)
	out = append(out, r.GetId(), s.pipeline.Label(r))
	amounted, hasAmounts := any(r).(listing.Amounted)
	for _, c := range s.spec.Columns {
		if hasAmounts {
			if d, ok := amounted.Amount(c.Field); ok {
				out = append(out, d.InexactFloat64())
				continue
			}
		}
		v, _ := r.FieldValue(c.Field)
		out = append(out, v)
	}
	return out
}

func (s *screen[R]) exportHeaders() []string {
	out := make([]string, 0, len(s.spec.Columns)+2)
	out = append(out, "Id", "Label")
	for _, c := range s.spec.Columns {
		out = append(out, c.Title)
	}
	return out
}
