package listing

import "github.com/shopspring/decimal"

// Record is the minimum shape of a dashboard row: a stable identity plus
// string access to named fields. Implementations must be safe to call on a
// nil receiver and must never mutate themselves.
type Record interface {
	GetId() string
	// FieldValue reports the string form of a named field and whether the
	// record carries that field at all.
	FieldValue(name string) (string, bool)
}

// Amounted records expose decimal amount fields for tab totals.
type Amounted interface {
	Amount(name string) (decimal.Decimal, bool)
}

// Mutable records return modified copies. The bool is false when the field
// cannot be changed that way, in which case the returned value is ignored.
type Mutable[R any] interface {
	Toggled(field string) (R, bool)
	WithValue(field, value string) (R, bool)
}

// MutableRecord is the constraint used by the optimistic mutator and the
// screen reducer.
type MutableRecord[R any] interface {
	Record
	Mutable[R]
}

// LabelChain is the ordered list of fields tried when resolving the
// human-readable label of a record. The first present, non-empty field wins.
type LabelChain []string

// Resolve returns the label of r, or "" when no field in the chain is set.
func (c LabelChain) Resolve(r Record) string {
	for _, name := range c {
		if v, ok := r.FieldValue(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// Ids returns the ids of records in order.
func Ids[R Record](records []R) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.GetId())
	}
	return out
}

// Find returns the record with the given id.
func Find[R Record](records []R, id string) (R, bool) {
	for _, r := range records {
		if r.GetId() == id {
			return r, true
		}
	}
	var zero R
	return zero, false
}
