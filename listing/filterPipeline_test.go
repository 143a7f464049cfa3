package listing_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"github.com/google/go-cmp/cmp"
)

func scenarioMerged() []*row {
	baseline := []*row{newRow("O1", "status", "new"), newRow("O2", "status", "completed")}
	live := []*row{newRow("O1", "status", "preparing")}
	return listing.Merge(baseline, live)
}

func TestFilter_TabScenario(t *testing.T) {
	p := orderPipeline()
	merged := scenarioMerged()

	cases := []struct {
		tab  string
		want []string
	}{
		{"preparing", []string{"O1:preparing"}},
		{"new", []string{}},
		{"completed", []string{"O2:completed"}},
	}
	for _, tc := range cases {
		state := listing.FilterState{CategorySelector: listing.AllCategories, ActiveTab: tc.tab}
		got := p.Visible(merged, state)
		if diff := cmp.Diff(tc.want, statusOf(got)); diff != "" {
			t.Fatalf("tab %q (-want +got):\n%s", tc.tab, diff)
		}
	}
}

func TestFilter_SearchUsesLabelFallbackChain(t *testing.T) {
	p := orderPipeline()
	records := []*row{
		newRow("1", "status", "new", "hotelName", "Grand Palace Hotel", "vendorName", "Fresh Co"),
		newRow("2", "status", "new", "vendorName", "Palace Bakery"),
		newRow("3", "status", "new", "franchiseName", "Golden Spoon"),
		newRow("4", "status", "new", "source", "PALACE payout"),
		newRow("5", "status", "new", "hotelName", "", "vendorName", "Empty Hotel Fallback"),
		newRow("6", "status", "new"),
	}

	cases := []struct {
		term string
		want []string
	}{
		{"palace", []string{"1", "2", "4"}},
		{"FRESH", []string{}},
		{"spoon", []string{"3"}},
		{"fallback", []string{"5"}},
		{"  ", []string{"1", "2", "3", "4", "5", "6"}},
	}
	for _, tc := range cases {
		state := listing.FilterState{SearchTerm: tc.term, CategorySelector: listing.AllCategories, ActiveTab: "new"}
		got := listing.Ids(p.Visible(records, state))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("search %q (-want +got):\n%s", tc.term, diff)
		}
	}
}

func TestFilter_SearchFoldsUnicodeCase(t *testing.T) {
	p := orderPipeline()
	records := []*row{newRow("1", "status", "new", "hotelName", "GRAND CAFÉ Ωmega")}

	state := listing.FilterState{SearchTerm: "café ωmega", ActiveTab: "new"}
	if got := p.Visible(records, state); len(got) != 1 {
		t.Fatalf("expected case-folded match, got %d records", len(got))
	}
}

func TestFilter_CategoryIsExactAndCaseSensitive(t *testing.T) {
	p := orderPipeline()
	records := []*row{
		newRow("1", "status", "new", "category", "produce"),
		newRow("2", "status", "new", "category", "Produce"),
		newRow("3", "status", "new"),
	}

	cases := []struct {
		selector string
		want     []string
	}{
		{"produce", []string{"1"}},
		{"Produce", []string{"2"}},
		{"prod", []string{}},
		{listing.AllCategories, []string{"1", "2", "3"}},
		{"", []string{"1", "2", "3"}},
	}
	for _, tc := range cases {
		state := listing.FilterState{CategorySelector: tc.selector, ActiveTab: "new"}
		got := listing.Ids(p.Visible(records, state))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("category %q (-want +got):\n%s", tc.selector, diff)
		}
	}
}

func TestFilter_MissingStatusBelongsToDefaultTabOnly(t *testing.T) {
	p := orderPipeline()
	records := []*row{newRow("A"), newRow("B", "status", ""), newRow("C", "status", "new")}

	got := listing.Ids(p.Visible(records, listing.FilterState{ActiveTab: "new"}))
	if diff := cmp.Diff([]string{"A", "B", "C"}, got); diff != "" {
		t.Fatalf("default tab (-want +got):\n%s", diff)
	}
	for _, tab := range []string{"preparing", "completed"} {
		if got := p.Visible(records, listing.FilterState{ActiveTab: tab}); len(got) != 0 {
			t.Fatalf("tab %q should not hold status-less records, got %v", tab, listing.Ids(got))
		}
	}
}

func TestFilter_UnknownTabYieldsEmpty(t *testing.T) {
	p := orderPipeline()
	got := p.Visible(scenarioMerged(), listing.FilterState{ActiveTab: "archived"})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestFilter_NoTabsSkipsTabStep(t *testing.T) {
	p := listing.Pipeline[*row]{Labels: listing.LabelChain{"name"}}
	records := []*row{newRow("1", "status", "x"), newRow("2")}

	got := listing.Ids(p.Visible(records, listing.FilterState{ActiveTab: "anything"}))
	if diff := cmp.Diff([]string{"1", "2"}, got); diff != "" {
		t.Fatalf("no tabs (-want +got):\n%s", diff)
	}
}

func TestFilter_SequenceIsRestartableAndLazy(t *testing.T) {
	p := orderPipeline()
	records := []*row{
		newRow("1", "status", "new"),
		newRow("2", "status", "new"),
		newRow("3", "status", "new"),
	}
	seq := p.Filter(records, listing.FilterState{ActiveTab: "new"})

	first := listing.Ids(listing.Collect(seq))
	second := listing.Ids(listing.Collect(seq))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second pass differs (-first +second):\n%s", diff)
	}

	seen := 0
	for range seq {
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("expected early stop after 1 record, saw %d", seen)
	}
}

func TestFilter_IsIdempotent(t *testing.T) {
	p := orderPipeline()
	records := []*row{
		newRow("1", "status", "new", "hotelName", "Lake View", "category", "dairy"),
		newRow("2", "status", "new", "hotelName", "Lake Side", "category", "produce"),
		newRow("3", "status", "preparing", "hotelName", "Lake View", "category", "dairy"),
	}
	state := listing.FilterState{SearchTerm: "lake", CategorySelector: "dairy", ActiveTab: "new"}

	once := p.Visible(records, state)
	twice := p.Visible(once, state)
	if diff := cmp.Diff(listing.Ids(once), listing.Ids(twice)); diff != "" {
		t.Fatalf("filter not idempotent (-once +twice):\n%s", diff)
	}
}

func TestFilter_StepsCompose(t *testing.T) {
	p := orderPipeline()
	records := []*row{
		newRow("1", "status", "new", "hotelName", "Lake View", "category", "dairy"),
		newRow("2", "status", "new", "hotelName", "Hill Top", "category", "dairy"),
		newRow("3", "status", "preparing", "hotelName", "Lake View", "category", "dairy"),
		newRow("4", "status", "new", "hotelName", "Lake View", "category", "produce"),
	}
	full := listing.FilterState{SearchTerm: "lake", CategorySelector: "dairy", ActiveTab: "new"}

	// Applying the steps one at a time, in any order, matches the combined pass.
	bySearch := listing.FilterState{SearchTerm: "lake", ActiveTab: "new"}
	byCategory := listing.FilterState{CategorySelector: "dairy", ActiveTab: "new"}

	a := p.Visible(p.Visible(records, bySearch), byCategory)
	b := p.Visible(p.Visible(records, byCategory), bySearch)
	want := listing.Ids(p.Visible(records, full))

	if diff := cmp.Diff(want, listing.Ids(a)); diff != "" {
		t.Fatalf("search then category (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, listing.Ids(b)); diff != "" {
		t.Fatalf("category then search (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1"}, want); diff != "" {
		t.Fatalf("combined (-want +got):\n%s", diff)
	}
}

func TestNewFilterState(t *testing.T) {
	got := listing.NewFilterState(orderTabs)
	want := listing.FilterState{CategorySelector: listing.AllCategories, ActiveTab: "new"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
