package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer order as listed on the vendor and admin order screens.
type Order struct {
	ID            string          `json:"id" yaml:"id" validate:"required"`
	HotelName     string          `json:"hotel_name,omitempty" yaml:"hotel_name"`
	VendorName    string          `json:"vendor_name,omitempty" yaml:"vendor_name"`
	FranchiseName string          `json:"franchise_name,omitempty" yaml:"franchise_name"`
	Source        string          `json:"source,omitempty" yaml:"source"`
	Category      string          `json:"category,omitempty" yaml:"category"`
	Status        OrderStatus     `json:"status,omitempty" yaml:"status"`
	Total         decimal.Decimal `json:"total" yaml:"total"`
	Priority      bool            `json:"priority" yaml:"priority"`
	PlacedAt      time.Time       `json:"placed_at" yaml:"placed_at"`
}

func (o *Order) GetId() string {
	if o == nil {
		return ""
	}
	return o.ID
}

func (o *Order) FieldValue(name string) (string, bool) {
	if o == nil {
		return "", false
	}
	switch name {
	case FieldId:
		return o.ID, true
	case FieldHotelName:
		return o.HotelName, true
	case FieldVendorName:
		return o.VendorName, true
	case FieldFranchiseName:
		return o.FranchiseName, true
	case FieldSource:
		return o.Source, true
	case FieldCategory:
		return o.Category, true
	case FieldStatus:
		return string(o.Status), true
	case FieldTotal:
		return amountString(o.Total), true
	case FieldPriority:
		return boolString(o.Priority), true
	case FieldPlacedAt:
		return timeString(o.PlacedAt), true
	}
	return "", false
}

func (o *Order) Amount(name string) (decimal.Decimal, bool) {
	if o == nil || name != FieldTotal {
		return decimal.Zero, false
	}
	return o.Total, true
}

func (o *Order) Toggled(field string) (*Order, bool) {
	if o == nil || field != FieldPriority {
		return nil, false
	}
	c := *o
	c.Priority = !c.Priority
	return &c, true
}

func (o *Order) WithValue(field, value string) (*Order, bool) {
	if o == nil {
		return nil, false
	}
	c := *o
	switch field {
	case FieldStatus:
		s, ok := lookupEnum(value, orderStatuses)
		if !ok {
			return nil, false
		}
		c.Status = s
	case FieldPriority:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, false
		}
		c.Priority = b
	default:
		return nil, false
	}
	return &c, true
}
