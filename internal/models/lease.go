package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrAmendmentImmutable is returned when something tries to rewrite an audit row.
var ErrAmendmentImmutable = errors.New("rent amendments are append-only")

// Lease binds one unit to its tenants under a rent plus charges total.
type Lease struct {
	CreatedAt time.Time       `gorm:"column:created_at" json:"createdAt"`
	Unit      *Unit           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	EndDate   *Date           `gorm:"type:date;column:end_date" json:"endDate,omitempty"`
	Notes     *string         `gorm:"type:text;column:notes" json:"notes,omitempty"`
	StartDate Date            `gorm:"type:date;not null;column:start_date" json:"startDate"`
	Rent      decimal.Decimal `gorm:"type:numeric(12,2);not null;column:rent" json:"rent"`
	Charges   decimal.Decimal `gorm:"type:numeric(12,2);not null;column:charges" json:"charges"`
	ID        uint            `gorm:"primaryKey" json:"id"`
	UnitID    uint            `gorm:"not null;index;column:unit_id" json:"unitId"`
	Active    bool            `gorm:"not null;index;column:active" json:"active"`
}

// TableName specifies the table name for GORM.
func (Lease) TableName() string {
	return "leases"
}

// Total returns the monthly amount due for the whole lease.
func (l Lease) Total() decimal.Decimal {
	return l.Rent.Add(l.Charges)
}

// LeaseUpdate lists the fields of a Lease that may change outside of an amendment.
type LeaseUpdate struct {
	EndDate      *Date
	ClearEndDate bool
	Notes        *string
}

// Apply copies the set fields onto l.
func (upd LeaseUpdate) Apply(l *Lease) {
	switch {
	case upd.ClearEndDate:
		l.EndDate = nil
	case upd.EndDate != nil:
		l.EndDate = upd.EndDate
	}
	if upd.Notes != nil {
		l.Notes = upd.Notes
	}
}

// RentAmendment is the audit record of one rent/charges change on a lease.
// Rows are written once and never updated.
type RentAmendment struct {
	RecordedAt    time.Time       `gorm:"autoCreateTime;column:recorded_at" json:"recordedAt"`
	Lease         *Lease          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Notes         *string         `gorm:"type:text;column:notes" json:"notes,omitempty"`
	EffectiveDate Date            `gorm:"type:date;not null;column:effective_date" json:"effectiveDate"`
	OldRent       decimal.Decimal `gorm:"type:numeric(12,2);not null;column:old_rent" json:"oldRent"`
	NewRent       decimal.Decimal `gorm:"type:numeric(12,2);not null;column:new_rent" json:"newRent"`
	OldCharges    decimal.Decimal `gorm:"type:numeric(12,2);not null;column:old_charges" json:"oldCharges"`
	NewCharges    decimal.Decimal `gorm:"type:numeric(12,2);not null;column:new_charges" json:"newCharges"`
	ID            uint            `gorm:"primaryKey" json:"id"`
	LeaseID       uint            `gorm:"not null;index;column:lease_id" json:"leaseId"`
}

// TableName specifies the table name for GORM.
func (RentAmendment) TableName() string {
	return "rent_amendments"
}

// BeforeUpdate rejects any update issued through a RentAmendment model.
func (a *RentAmendment) BeforeUpdate(tx *gorm.DB) error {
	return ErrAmendmentImmutable
}

// OldTotal is the monthly total before the amendment.
func (a RentAmendment) OldTotal() decimal.Decimal {
	return a.OldRent.Add(a.OldCharges)
}

// NewTotal is the monthly total after the amendment.
func (a RentAmendment) NewTotal() decimal.Decimal {
	return a.NewRent.Add(a.NewCharges)
}
