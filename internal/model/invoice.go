package model

import (
	"github.com/shopspring/decimal"
)

// Layouts for dates and timestamps as they are stored.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05"
)

// Location is a loading or unloading point on a route.
type Location struct {
	City    string `json:"city"`
	Address string `json:"address"`
}

// IsZero reports whether neither city nor address is set.
func (l Location) IsZero() bool {
	return l.City == "" && l.Address == ""
}

// Invoice is an issued transport invoice. Dates are kept as stored strings
// so a malformed value survives a load and is skipped by aggregates.
type Invoice struct {
	ID                 string          `json:"id" validate:"required"`
	CompanyName        string          `json:"company_name" validate:"required"`
	NIP                string          `json:"nip" validate:"required,nip"`
	Amount             decimal.Decimal `json:"amount"`
	Deadline           string          `json:"deadline" validate:"required"`
	PaymentTerm        int             `json:"payment_term" validate:"min=1,max=365"`
	IssueDate          string          `json:"issue_date" validate:"required"`
	Description        string          `json:"description,omitempty"`
	CreatedAt          string          `json:"created_at" validate:"required"`
	IsPaid             bool            `json:"is_paid"`
	PaidAt             string          `json:"paid_at,omitempty"`
	PaidOnTime         bool            `json:"paid_on_time"`
	ContactPhone       string          `json:"contact_phone,omitempty"`
	Loading            Location        `json:"loading_location"`
	Unloading          Location        `json:"unloading_location"`
	CalculatedDistance float64         `json:"calculated_distance,omitempty" validate:"gte=0,lte=10000"`
	DriverID           string          `json:"driver_id,omitempty"`
}

// Key returns the record identifier.
func (i Invoice) Key() string { return i.ID }

// Status returns the Polish payment status label.
func (i Invoice) Status() string {
	if i.IsPaid {
		return "Opłacona"
	}
	return "Oczekuje"
}
