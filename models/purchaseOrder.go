package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is a franchise restock request routed to a vendor.
type PurchaseOrder struct {
	ID            string              `json:"id" yaml:"id" validate:"required"`
	FranchiseName string              `json:"franchise_name,omitempty" yaml:"franchise_name"`
	VendorName    string              `json:"vendor_name,omitempty" yaml:"vendor_name"`
	Category      string              `json:"category,omitempty" yaml:"category"`
	Status        PurchaseOrderStatus `json:"status,omitempty" yaml:"status"`
	Total         decimal.Decimal     `json:"total" yaml:"total"`
	Urgent        bool                `json:"urgent" yaml:"urgent"`
}

func (p *PurchaseOrder) GetId() string {
	if p == nil {
		return ""
	}
	return p.ID
}

func (p *PurchaseOrder) FieldValue(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	switch name {
	case FieldId:
		return p.ID, true
	case FieldFranchiseName:
		return p.FranchiseName, true
	case FieldVendorName:
		return p.VendorName, true
	case FieldCategory:
		return p.Category, true
	case FieldStatus:
		return string(p.Status), true
	case FieldTotal:
		return amountString(p.Total), true
	case FieldUrgent:
		return boolString(p.Urgent), true
	}
	return "", false
}

func (p *PurchaseOrder) Amount(name string) (decimal.Decimal, bool) {
	if p == nil || name != FieldTotal {
		return decimal.Zero, false
	}
	return p.Total, true
}

func (p *PurchaseOrder) Toggled(field string) (*PurchaseOrder, bool) {
	if p == nil || field != FieldUrgent {
		return nil, false
	}
	c := *p
	c.Urgent = !c.Urgent
	return &c, true
}

func (p *PurchaseOrder) WithValue(field, value string) (*PurchaseOrder, bool) {
	if p == nil {
		return nil, false
	}
	c := *p
	switch field {
	case FieldStatus:
		s, ok := lookupEnum(value, purchaseOrderStatuses)
		if !ok {
			return nil, false
		}
		c.Status = s
	case FieldUrgent:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, false
		}
		c.Urgent = b
	default:
		return nil, false
	}
	return &c, true
}
