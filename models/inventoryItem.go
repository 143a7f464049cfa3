package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// InventoryItem is a product a vendor can mark available or unavailable.
// Its status is derived from Available.
type InventoryItem struct {
	ID        string          `json:"id" yaml:"id" validate:"required"`
	Name      string          `json:"name" yaml:"name" validate:"required"`
	Sku       string          `json:"sku,omitempty" yaml:"sku"`
	Category  string          `json:"category,omitempty" yaml:"category"`
	Price     decimal.Decimal `json:"price" yaml:"price"`
	Stock     int             `json:"stock" yaml:"stock" validate:"gte=0"`
	Available bool            `json:"available" yaml:"available"`
}

func (i *InventoryItem) GetId() string {
	if i == nil {
		return ""
	}
	return i.ID
}

func (i *InventoryItem) status() string {
	if i.Available {
		return InventoryStatusAvailable
	}
	return InventoryStatusUnavailable
}

func (i *InventoryItem) FieldValue(name string) (string, bool) {
	if i == nil {
		return "", false
	}
	switch name {
	case FieldId:
		return i.ID, true
	case FieldName:
		return i.Name, true
	case FieldSku:
		return i.Sku, true
	case FieldCategory:
		return i.Category, true
	case FieldPrice:
		return amountString(i.Price), true
	case FieldStock:
		return strconv.Itoa(i.Stock), true
	case FieldAvailable:
		return boolString(i.Available), true
	case FieldStatus:
		return i.status(), true
	}
	return "", false
}

func (i *InventoryItem) Amount(name string) (decimal.Decimal, bool) {
	if i == nil {
		return decimal.Zero, false
	}
	switch name {
	case FieldPrice:
		return i.Price, true
	case FieldTotal:
		return i.Price.Mul(decimal.NewFromInt(int64(i.Stock))), true
	}
	return decimal.Zero, false
}

func (i *InventoryItem) Toggled(field string) (*InventoryItem, bool) {
	if i == nil || field != FieldAvailable {
		return nil, false
	}
	c := *i
	c.Available = !c.Available
	return &c, true
}

func (i *InventoryItem) WithValue(field, value string) (*InventoryItem, bool) {
	if i == nil {
		return nil, false
	}
	c := *i
	switch field {
	case FieldAvailable:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, false
		}
		c.Available = b
	case FieldStatus:
		switch value {
		case InventoryStatusAvailable:
			c.Available = true
		case InventoryStatusUnavailable:
			c.Available = false
		default:
			return nil, false
		}
	case FieldStock:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, false
		}
		c.Stock = n
	default:
		return nil, false
	}
	return &c, true
}
