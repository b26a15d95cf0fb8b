package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Property is a building or apartment that contains rentable units.
type Property struct {
	CreatedAt       time.Time `gorm:"column:created_at" json:"createdAt"`
	Notes           *string   `gorm:"type:text;column:notes" json:"notes,omitempty"`
	Surface         *float64  `gorm:"column:surface" json:"surface,omitempty"`
	AcquisitionDate *Date     `gorm:"type:date;column:acquisition_date" json:"acquisitionDate,omitempty"`
	Address         string    `gorm:"size:200;not null;column:address" json:"address"`
	City            string    `gorm:"size:100;not null;column:city" json:"city"`
	PostalCode      string    `gorm:"size:10;not null;column:postal_code" json:"postalCode"`
	ID              uint      `gorm:"primaryKey" json:"id"`
}

// TableName specifies the table name for GORM.
func (Property) TableName() string {
	return "properties"
}

// PropertyUpdate lists the client-mutable fields of a Property. Nil fields are left unchanged.
type PropertyUpdate struct {
	Address         *string
	City            *string
	PostalCode      *string
	Surface         *float64
	AcquisitionDate *Date
	Notes           *string
}

// Apply copies the set fields onto p.
func (upd PropertyUpdate) Apply(p *Property) {
	if upd.Address != nil {
		p.Address = strings.TrimSpace(*upd.Address)
	}
	if upd.City != nil {
		p.City = strings.TrimSpace(*upd.City)
	}
	if upd.PostalCode != nil {
		p.PostalCode = strings.TrimSpace(*upd.PostalCode)
	}
	if upd.Surface != nil {
		p.Surface = upd.Surface
	}
	if upd.AcquisitionDate != nil {
		p.AcquisitionDate = upd.AcquisitionDate
	}
	if upd.Notes != nil {
		p.Notes = upd.Notes
	}
}

// Unit is a rentable subdivision of a property: a single room or the whole apartment.
type Unit struct {
	CreatedAt  time.Time       `gorm:"column:created_at" json:"createdAt"`
	Property   *Property       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Surface    *float64        `gorm:"column:surface" json:"surface,omitempty"`
	Label      string          `gorm:"size:50;not null;column:label" json:"label"`
	Rent       decimal.Decimal `gorm:"type:numeric(12,2);not null;column:rent" json:"rent"`
	Charges    decimal.Decimal `gorm:"type:numeric(12,2);not null;column:charges" json:"charges"`
	ID         uint            `gorm:"primaryKey" json:"id"`
	PropertyID uint            `gorm:"not null;index;column:property_id" json:"propertyId"`
	Whole      bool            `gorm:"not null;column:whole" json:"whole"`
	Available  bool            `gorm:"not null;column:available" json:"available"`
}

// TableName specifies the table name for GORM.
func (Unit) TableName() string {
	return "units"
}

// Total returns the monthly base rent plus charges.
func (u Unit) Total() decimal.Decimal {
	return u.Rent.Add(u.Charges)
}

// UnitUpdate lists the client-mutable fields of a Unit. Nil fields are left unchanged.
// Availability is owned by the lease lifecycle and cannot be set directly.
type UnitUpdate struct {
	Label   *string
	Rent    *decimal.Decimal
	Charges *decimal.Decimal
	Surface *float64
}

// Apply copies the set fields onto u.
func (upd UnitUpdate) Apply(u *Unit) {
	if upd.Label != nil {
		u.Label = *upd.Label
	}
	if upd.Rent != nil {
		u.Rent = RoundCents(*upd.Rent)
	}
	if upd.Charges != nil {
		u.Charges = RoundCents(*upd.Charges)
	}
	if upd.Surface != nil {
		u.Surface = upd.Surface
	}
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
