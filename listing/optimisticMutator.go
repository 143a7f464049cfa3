package listing

import "slices"

// ApplyToggle inverts a boolean field of the record with the given id.
//
// The result is a new slice in which only the target is replaced; every other
// element is the same value as before. When the id is absent, or the record
// cannot toggle the field, collection itself is returned.
func ApplyToggle[R MutableRecord[R]](collection []R, id, field string) []R {
	return replace(collection, id, func(r R) (R, bool) {
		return r.Toggled(field)
	})
}

// ApplyTransition sets field to value on the record with the given id, with
// the same replacement rules as ApplyToggle.
func ApplyTransition[R MutableRecord[R]](collection []R, id, field, value string) []R {
	return replace(collection, id, func(r R) (R, bool) {
		return r.WithValue(field, value)
	})
}

func replace[R Record](collection []R, id string, change func(R) (R, bool)) []R {
	idx := slices.IndexFunc(collection, func(r R) bool { return r.GetId() == id })
	if idx < 0 {
		return collection
	}
	next, ok := change(collection[idx])
	if !ok {
		return collection
	}
	out := slices.Clone(collection)
	out[idx] = next
	return out
}
