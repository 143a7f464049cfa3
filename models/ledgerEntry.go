package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a payout, commission, fee or refund line. Its status is
// derived from Reconciled.
type LedgerEntry struct {
	ID         string          `json:"id" yaml:"id" validate:"required"`
	Source     string          `json:"source,omitempty" yaml:"source"`
	Category   string          `json:"category,omitempty" yaml:"category"`
	Direction  LedgerDirection `json:"direction" yaml:"direction" validate:"required"`
	Value      decimal.Decimal `json:"amount" yaml:"amount"`
	Reconciled bool            `json:"reconciled" yaml:"reconciled"`
	PostedAt   time.Time       `json:"posted_at" yaml:"posted_at"`
}

func (e *LedgerEntry) GetId() string {
	if e == nil {
		return ""
	}
	return e.ID
}

// SignedAmount is negative for debits.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == LedgerDirectionDebit {
		return e.Value.Neg()
	}
	return e.Value
}

func (e *LedgerEntry) status() string {
	if e.Reconciled {
		return LedgerStatusReconciled
	}
	return LedgerStatusPending
}

func (e *LedgerEntry) FieldValue(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	switch name {
	case FieldId:
		return e.ID, true
	case FieldSource:
		return e.Source, true
	case FieldCategory:
		return e.Category, true
	case FieldDirection:
		return string(e.Direction), true
	case FieldAmount:
		return amountString(e.Value), true
	case FieldSignedAmount:
		return amountString(e.SignedAmount()), true
	case FieldReconciled:
		return boolString(e.Reconciled), true
	case FieldStatus:
		return e.status(), true
	case FieldPostedAt:
		return timeString(e.PostedAt), true
	}
	return "", false
}

func (e *LedgerEntry) Amount(name string) (decimal.Decimal, bool) {
	if e == nil {
		return decimal.Zero, false
	}
	switch name {
	case FieldAmount:
		return e.Value, true
	case FieldSignedAmount:
		return e.SignedAmount(), true
	}
	return decimal.Zero, false
}

func (e *LedgerEntry) Toggled(field string) (*LedgerEntry, bool) {
	if e == nil || field != FieldReconciled {
		return nil, false
	}
	c := *e
	c.Reconciled = !c.Reconciled
	return &c, true
}

func (e *LedgerEntry) WithValue(field, value string) (*LedgerEntry, bool) {
	if e == nil {
		return nil, false
	}
	c := *e
	switch field {
	case FieldReconciled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, false
		}
		c.Reconciled = b
	case FieldStatus:
		switch value {
		case LedgerStatusReconciled:
			c.Reconciled = true
		case LedgerStatusPending:
			c.Reconciled = false
		default:
			return nil, false
		}
	default:
		return nil, false
	}
	return &c, true
}
