package models

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	OrderStatusNew            OrderStatus = "new"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var orderStatuses = map[string]OrderStatus{
	"new":              OrderStatusNew,
	"accepted":         OrderStatusAccepted,
	"preparing":        OrderStatusPreparing,
	"ready":            OrderStatusReady,
	"out_for_delivery": OrderStatusOutForDelivery,
	"delivered":        OrderStatusDelivered,
	"cancelled":        OrderStatusCancelled,
}

func (s *OrderStatus) UnmarshalText(text []byte) error {
	return parseEnum(text, orderStatuses, "order status", s)
}

type JobStatus string

const (
	JobStatusOffered   JobStatus = "offered"
	JobStatusAccepted  JobStatus = "accepted"
	JobStatusPickedUp  JobStatus = "picked_up"
	JobStatusDelivered JobStatus = "delivered"
	JobStatusDeclined  JobStatus = "declined"
)

var jobStatuses = map[string]JobStatus{
	"offered":   JobStatusOffered,
	"accepted":  JobStatusAccepted,
	"picked_up": JobStatusPickedUp,
	"delivered": JobStatusDelivered,
	"declined":  JobStatusDeclined,
}

func (s *JobStatus) UnmarshalText(text []byte) error {
	return parseEnum(text, jobStatuses, "job status", s)
}

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSubmitted PurchaseOrderStatus = "submitted"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

var purchaseOrderStatuses = map[string]PurchaseOrderStatus{
	"draft":     PurchaseOrderStatusDraft,
	"submitted": PurchaseOrderStatusSubmitted,
	"approved":  PurchaseOrderStatusApproved,
	"received":  PurchaseOrderStatusReceived,
	"cancelled": PurchaseOrderStatusCancelled,
}

func (s *PurchaseOrderStatus) UnmarshalText(text []byte) error {
	return parseEnum(text, purchaseOrderStatuses, "purchase order status", s)
}

type LedgerDirection string

const (
	LedgerDirectionCredit LedgerDirection = "credit"
	LedgerDirectionDebit  LedgerDirection = "debit"
)

var ledgerDirections = map[string]LedgerDirection{
	"credit": LedgerDirectionCredit,
	"debit":  LedgerDirectionDebit,
}

func (d *LedgerDirection) UnmarshalText(text []byte) error {
	return parseEnum(text, ledgerDirections, "ledger direction", d)
}

// Derived statuses of records that only carry a flag.
const (
	InventoryStatusAvailable   = "available"
	InventoryStatusUnavailable = "unavailable"
	LedgerStatusReconciled     = "reconciled"
	LedgerStatusPending        = "pending"
)

// parseEnum accepts an empty value (status not yet known) or one of valid.
func parseEnum[T ~string](text []byte, valid map[string]T, kind string, out *T) error {
	str := strings.TrimSpace(string(text))
	if str == "" {
		*out = ""
		return nil
	}
	v, ok := valid[str]
	if !ok {
		return fmt.Errorf("invalid %s %q", kind, str)
	}
	*out = v
	return nil
}

// lookupEnum is parseEnum for values coming from optimistic transitions,
// where an empty value is not a valid target.
func lookupEnum[T ~string](value string, valid map[string]T) (T, bool) {
	v, ok := valid[value]
	return v, ok
}
