package livesource

import (
	"context"
	"slices"
	"sync"

	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
)

// MemoryStore is a process-wide live collection. Writers apply updates;
// readers only ever see copies.
type MemoryStore[R listing.Record] struct {
	mu      sync.RWMutex
	records []R
	version uint64
}

func NewMemoryStore[R listing.Record](initial ...R) *MemoryStore[R] {
	return &MemoryStore[R]{records: dedupe(initial)}
}

// Snapshot implements listing.LiveSource. A nil store has no live data.
func (s *MemoryStore[R]) Snapshot(context.Context) []R {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Version increases with every applied change.
func (s *MemoryStore[R]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *MemoryStore[R]) Replace(records []R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = dedupe(records)
	s.version++
}

func (s *MemoryStore[R]) Upsert(records ...R) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.records)
	for _, r := range records {
		i := slices.IndexFunc(next, func(cur R) bool { return cur.GetId() == r.GetId() })
		if i >= 0 {
			next[i] = r
			continue
		}
		next = append(next, r)
	}
	s.records = next
	s.version++
}

func (s *MemoryStore[R]) Remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = slices.DeleteFunc(slices.Clone(s.records), func(r R) bool {
		return slices.Contains(ids, r.GetId())
	})
	s.version++
}

// Apply decodes u into R and applies it.
func (s *MemoryStore[R]) Apply(u Update) error {
	switch u.Op {
	case OpRemove:
		s.Remove(u.Ids...)
		return nil
	case OpUpsert, OpReplace:
		records, err := decodeRecords[R](u)
		if err != nil {
			return err
		}
		if u.Op == OpReplace {
			s.Replace(records)
		} else {
			s.Upsert(records...)
		}
		return nil
	}
	return ErrUnknownOp
}

// dedupe keeps the last record of every id, in first-seen position.
func dedupe[R listing.Record](records []R) []R {
	out := make([]R, 0, len(records))
	index := make(map[string]int, len(records))
	for _, r := range records {
		if i, ok := index[r.GetId()]; ok {
			out[i] = r
			continue
		}
		index[r.GetId()] = len(out)
		out = append(out, r)
	}
	return out
}
