package models

import (
	"fmt"
	"strconv"

	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/shopspring/decimal"
)

// DeliveryJob is a pickup/drop-off offered to or taken by a delivery partner.
type DeliveryJob struct {
	ID             string          `json:"id" yaml:"id" validate:"required"`
	VendorName     string          `json:"vendor_name,omitempty" yaml:"vendor_name"`
	HotelName      string          `json:"hotel_name,omitempty" yaml:"hotel_name"`
	Zone           string          `json:"zone,omitempty" yaml:"zone"`
	DropoffAddress string          `json:"dropoff_address,omitempty" yaml:"dropoff_address"`
	ContactPhone   string          `json:"contact_phone,omitempty" yaml:"contact_phone"`
	Status         JobStatus       `json:"status,omitempty" yaml:"status"`
	Fee            decimal.Decimal `json:"fee" yaml:"fee"`
	Tip            decimal.Decimal `json:"tip" yaml:"tip"`
	Pinned         bool            `json:"pinned" yaml:"pinned"`
}

// Normalize rewrites ContactPhone to E.164 when it parses for the default
// country. Unparseable numbers are kept as entered.
func (j *DeliveryJob) Normalize() {
	if j == nil || j.ContactPhone == "" {
		return
	}
	if e164, err := utils.NormalizePhone(j.ContactPhone, utils.CountryCode); err == nil {
		j.ContactPhone = e164
	}
}

// Validate rejects a contact phone that is not a dialable number.
func (j *DeliveryJob) Validate() error {
	if j == nil || j.ContactPhone == "" {
		return nil
	}
	if err := utils.ValidatePhoneNumber(j.ContactPhone, utils.CountryCode); err != nil {
		return fmt.Errorf("delivery job %s: contact phone %q: %w", j.ID, j.ContactPhone, err)
	}
	return nil
}

func (j *DeliveryJob) GetId() string {
	if j == nil {
		return ""
	}
	return j.ID
}

func (j *DeliveryJob) FieldValue(name string) (string, bool) {
	if j == nil {
		return "", false
	}
	switch name {
	case FieldId:
		return j.ID, true
	case FieldVendorName:
		return j.VendorName, true
	case FieldHotelName:
		return j.HotelName, true
	case FieldZone:
		return j.Zone, true
	case FieldDropoffAddress:
		return j.DropoffAddress, true
	case FieldContactPhone:
		return j.ContactPhone, true
	case FieldStatus:
		return string(j.Status), true
	case FieldFee:
		return amountString(j.Fee), true
	case FieldTip:
		return amountString(j.Tip), true
	case FieldPinned:
		return boolString(j.Pinned), true
	}
	return "", false
}

func (j *DeliveryJob) Amount(name string) (decimal.Decimal, bool) {
	if j == nil {
		return decimal.Zero, false
	}
	switch name {
	case FieldFee:
		return j.Fee, true
	case FieldTip:
		return j.Tip, true
	case FieldTotal:
		return j.Fee.Add(j.Tip), true
	}
	return decimal.Zero, false
}

func (j *DeliveryJob) Toggled(field string) (*DeliveryJob, bool) {
	if j == nil || field != FieldPinned {
		return nil, false
	}
	c := *j
	c.Pinned = !c.Pinned
	return &c, true
}

func (j *DeliveryJob) WithValue(field, value string) (*DeliveryJob, bool) {
	if j == nil {
		return nil, false
	}
	c := *j
	switch field {
	case FieldStatus:
		s, ok := lookupEnum(value, jobStatuses)
		if !ok {
			return nil, false
		}
		c.Status = s
	case FieldPinned:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, false
		}
		c.Pinned = b
	default:
		return nil, false
	}
	return &c, true
}
