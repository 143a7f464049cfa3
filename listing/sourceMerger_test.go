package listing_test

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"github.com/google/go-cmp/cmp"
)

type staticSource []*row

func (s staticSource) Snapshot(context.Context) []*row { return s }

func TestMerge_LiveWinsAndComesFirst(t *testing.T) {
	baseline := []*row{newRow("O1", "status", "new"), newRow("O2", "status", "completed")}
	live := []*row{newRow("O1", "status", "preparing")}

	got := listing.Merge(baseline, live)

	want := []string{"O1:preparing", "O2:completed"}
	if diff := cmp.Diff(want, statusOf(got)); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if got[0] != live[0] {
		t.Fatalf("expected live record instance for O1")
	}
	if got[1] != baseline[1] {
		t.Fatalf("expected baseline record instance for O2")
	}
}

func TestMerge_LiveRecordReplacesInFull(t *testing.T) {
	baseline := []*row{newRow("P1", "status", "pending", "vendorName", "Green Farm")}
	live := []*row{newRow("P1", "status", "approved")}

	got := listing.Merge(baseline, live)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if _, ok := got[0].FieldValue("vendorName"); ok {
		t.Fatalf("baseline field leaked into live record")
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	baseline := []*row{newRow("A"), newRow("B")}

	if diff := cmp.Diff([]string{"A", "B"}, listing.Ids(listing.Merge(baseline, nil))); diff != "" {
		t.Fatalf("empty live (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, listing.Ids(listing.Merge(nil, baseline))); diff != "" {
		t.Fatalf("empty baseline (-want +got):\n%s", diff)
	}
	if got := listing.Merge[*row](nil, nil); len(got) != 0 {
		t.Fatalf("expected empty merge, got %d records", len(got))
	}
}

func TestMerge_DuplicatesInsideOneSourceKeepFirst(t *testing.T) {
	live := []*row{newRow("X", "status", "a"), newRow("Y"), newRow("X", "status", "b")}
	baseline := []*row{newRow("Z"), newRow("Z")}

	got := listing.Merge(baseline, live)
	if diff := cmp.Diff([]string{"X", "Y", "Z"}, listing.Ids(got)); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
	if v, _ := got[0].FieldValue("status"); v != "a" {
		t.Fatalf("expected first live occurrence to win, got status %q", v)
	}
}

func TestMerge_ReapplyingSameLiveIsIdempotent(t *testing.T) {
	baseline := []*row{newRow("A"), newRow("B"), newRow("C")}
	live := []*row{newRow("C"), newRow("D")}

	once := listing.Merge(baseline, live)
	twice := listing.Merge(once, live)

	if diff := cmp.Diff(listing.Ids(once), listing.Ids(twice)); diff != "" {
		t.Fatalf("re-merge changed ids (-once +twice):\n%s", diff)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("re-merge replaced record %s", once[i].id)
		}
	}
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	baseline := []*row{newRow("A"), newRow("B")}
	live := []*row{newRow("B")}
	baseCopy := append([]*row(nil), baseline...)

	_ = listing.Merge(baseline, live)

	for i := range baseline {
		if baseline[i] != baseCopy[i] {
			t.Fatalf("baseline slice was modified at %d", i)
		}
	}
}

func TestMergeFrom(t *testing.T) {
	baseline := []*row{newRow("A"), newRow("B")}

	got := listing.MergeFrom[*row](context.Background(), baseline, nil)
	if diff := cmp.Diff([]string{"A", "B"}, listing.Ids(got)); diff != "" {
		t.Fatalf("nil source (-want +got):\n%s", diff)
	}

	got = listing.MergeFrom[*row](context.Background(), baseline, staticSource{newRow("B"), newRow("C")})
	if diff := cmp.Diff([]string{"B", "C", "A"}, listing.Ids(got)); diff != "" {
		t.Fatalf("static source (-want +got):\n%s", diff)
	}
}
