package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Field names understood by FieldValue, Amount, Toggled and WithValue.
const (
	FieldId             = "id"
	FieldStatus         = "status"
	FieldCategory       = "category"
	FieldHotelName      = "hotelName"
	FieldVendorName     = "vendorName"
	FieldFranchiseName  = "franchiseName"
	FieldSource         = "source"
	FieldName           = "name"
	FieldSku            = "sku"
	FieldZone           = "zone"
	FieldDropoffAddress = "dropoffAddress"
	FieldContactPhone   = "contactPhone"
	FieldDirection      = "direction"
	FieldTotal          = "total"
	FieldFee            = "fee"
	FieldTip            = "tip"
	FieldPrice          = "price"
	FieldStock          = "stock"
	FieldAmount         = "amount"
	FieldSignedAmount   = "signedAmount"
	FieldPriority       = "priority"
	FieldPinned         = "pinned"
	FieldAvailable      = "available"
	FieldUrgent         = "urgent"
	FieldReconciled     = "reconciled"
	FieldPlacedAt       = "placedAt"
	FieldPostedAt       = "postedAt"
)

func amountString(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func boolString(b bool) string {
	return strconv.FormatBool(b)
}

func timeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
