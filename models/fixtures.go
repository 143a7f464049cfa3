package models

import (
	"embed"
	"fmt"

	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"gopkg.in/yaml.v3"
)

// Baseline collections shipped with the binary, one file per screen.
const (
	FixtureVendorOrders   = "vendor_orders"
	FixtureAdminOrders    = "admin_orders"
	FixtureInventory      = "inventory"
	FixturePurchaseOrders = "purchase_orders"
	FixtureVendorLedger   = "vendor_ledger"
	FixtureAdminLedger    = "admin_ledger"
	FixtureDeliveryJobs   = "delivery_jobs"
	FixtureEarnings       = "delivery_earnings"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

type normalizer interface {
	Normalize()
}

// checker is implemented by records with rules struct tags cannot express.
type checker interface {
	Validate() error
}

// LoadFixture decodes fixtures/<name>.yaml into records, validates each one
// and applies its normalisation. Baselines are curated, so they are held to
// stricter rules than live records.
func LoadFixture[T any](name string) ([]*T, error) {
	raw, err := fixtureFS.ReadFile("fixtures/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", name, err)
	}
	return DecodeFixture[T](name, raw)
}

// DecodeFixture is LoadFixture for bytes that did not come from the
// embedded set.
func DecodeFixture[T any](name string, raw []byte) ([]*T, error) {
	var records []*T
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", name, err)
	}

	seen := make(map[string]struct{}, len(records))
	out := records[:0]
	for i, rec := range records {
		if rec == nil {
			continue
		}
		if err := utils.ValidateStruct(rec); err != nil {
			return nil, fmt.Errorf("fixture %s[%d]: %w", name, i, err)
		}
		if c, ok := any(rec).(checker); ok {
			if err := c.Validate(); err != nil {
				return nil, fmt.Errorf("fixture %s[%d]: %w", name, i, err)
			}
		}
		if n, ok := any(rec).(normalizer); ok {
			n.Normalize()
		}
		if ided, ok := any(rec).(interface{ GetId() string }); ok {
			id := ided.GetId()
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("fixture %s[%d]: duplicate id %q", name, i, id)
			}
			seen[id] = struct{}{}
		}
		out = append(out, rec)
	}
	return out, nil
}
