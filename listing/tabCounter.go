package listing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Counts returns, for every tab, how many records of reference belong to it.
// Tabs are evaluated independently so overlapping tabs may both count a
// record. Every tab id is present in the result, zero included.
func Counts[R Record](reference []R, tabs TabSet, statusOf func(R) string) map[string]int {
	out := make(map[string]int, len(tabs.Tabs))
	for _, t := range tabs.Tabs {
		n := 0
		for _, r := range reference {
			if tabs.Member(t, statusOf(r)) {
				n++
			}
		}
		out[t.Id] = n
	}
	return out
}

// Counts derives the badge counts of the pipeline's tabs. reference must be
// the merged collection the list is filtered from.
func (p Pipeline[R]) Counts(reference []R) map[string]int {
	return Counts(reference, p.Tabs, p.Status)
}

// Totals sums amountField over the members of each tab. Records that do not
// expose the amount contribute nothing.
func (p Pipeline[R]) Totals(reference []R, amountField string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.Tabs.Tabs))
	for _, t := range p.Tabs.Tabs {
		sum := decimal.Zero
		for _, r := range reference {
			if !p.Tabs.Member(t, p.Status(r)) {
				continue
			}
			a, ok := any(r).(Amounted)
			if !ok {
				continue
			}
			if v, ok := a.Amount(amountField); ok {
				sum = sum.Add(v)
			}
		}
		out[t.Id] = sum
	}
	return out
}

// CountDrift lists, sorted, the tab ids whose counts differ between two
// countings of the same tabs.
func CountDrift(expected, actual map[string]int) []string {
	var drift []string
	for id, n := range expected {
		if actual[id] != n {
			drift = append(drift, id)
		}
	}
	for id, n := range actual {
		if _, ok := expected[id]; !ok && n != 0 {
			drift = append(drift, id)
		}
	}
	sort.Strings(drift)
	return drift
}
