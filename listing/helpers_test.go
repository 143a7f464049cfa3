package listing_test

import (
	"maps"
	"strconv"

	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"github.com/shopspring/decimal"
)

// row is a free-form record used across the listing tests.
type row struct {
	id     string
	fields map[string]string
	flags  map[string]bool
	amount decimal.Decimal
}

func newRow(id string, kv ...string) *row {
	r := &row{id: id, fields: map[string]string{}, flags: map[string]bool{}}
	for i := 0; i+1 < len(kv); i += 2 {
		r.fields[kv[i]] = kv[i+1]
	}
	return r
}

func (r *row) withFlag(name string, v bool) *row {
	r.flags[name] = v
	return r
}

func (r *row) withAmount(v string) *row {
	r.amount = decimal.RequireFromString(v)
	return r
}

func (r *row) clone() *row {
	return &row{
		id:     r.id,
		fields: maps.Clone(r.fields),
		flags:  maps.Clone(r.flags),
		amount: r.amount,
	}
}

func (r *row) GetId() string {
	if r == nil {
		return ""
	}
	return r.id
}

func (r *row) FieldValue(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	if v, ok := r.flags[name]; ok {
		return strconv.FormatBool(v), true
	}
	v, ok := r.fields[name]
	return v, ok
}

func (r *row) Amount(name string) (decimal.Decimal, bool) {
	if r == nil || name != "amount" {
		return decimal.Zero, false
	}
	return r.amount, true
}

func (r *row) Toggled(field string) (*row, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.flags[field]
	if !ok {
		return nil, false
	}
	c := r.clone()
	c.flags[field] = !v
	return c, true
}

func (r *row) WithValue(field, value string) (*row, bool) {
	if r == nil {
		return nil, false
	}
	c := r.clone()
	c.fields[field] = value
	return c, true
}

func statusOf(records []*row) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		v, _ := r.FieldValue("status")
		out = append(out, r.id+":"+v)
	}
	return out
}

var orderTabs = listing.NewTabSet("new",
	listing.TabDefinition{Id: "new", Label: "New", Statuses: []string{"new"}},
	listing.TabDefinition{Id: "preparing", Label: "Preparing", Statuses: []string{"preparing"}},
	listing.TabDefinition{Id: "completed", Label: "Completed", Statuses: []string{"completed", "delivered"}},
)

func orderPipeline() listing.Pipeline[*row] {
	return listing.Pipeline[*row]{
		Labels:        listing.LabelChain{"hotelName", "vendorName", "franchiseName", "source"},
		StatusField:   "status",
		CategoryField: "category",
		Tabs:          orderTabs,
	}
}
