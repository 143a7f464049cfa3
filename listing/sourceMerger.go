package listing

import "context"

// LiveSource is the read-only pull accessor into the process-wide live data.
// Implementations own their failure handling: a source that cannot reach its
// backend returns its last good snapshot (or nothing) instead of an error.
type LiveSource[R any] interface {
	Snapshot(ctx context.Context) []R
}

// Merge reconciles the live records with the baseline snapshot.
//
// Live records come first in their given order, followed by baseline records
// whose id is not live. A live record replaces the baseline record with the
// same id in full. Within one input a repeated id keeps its first occurrence,
// so the output never holds an id twice. The inputs are never modified.
func Merge[R Record](baseline, live []R) []R {
	out := make([]R, 0, len(live)+len(baseline))
	seen := make(map[string]struct{}, len(live)+len(baseline))

	appendUnseen := func(records []R) {
		for _, r := range records {
			id := r.GetId()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, r)
		}
	}
	appendUnseen(live)
	appendUnseen(baseline)
	return out
}

// MergeFrom pulls the current snapshot from source and merges it over
// baseline. A nil source means there is no live data for the screen.
func MergeFrom[R Record](ctx context.Context, baseline []R, source LiveSource[R]) []R {
	if source == nil {
		return Merge(baseline, nil)
	}
	return Merge(baseline, source.Snapshot(ctx))
}
