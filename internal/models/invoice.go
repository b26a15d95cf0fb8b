package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the settlement state of a property expense.
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
)

// InvoiceCategory classifies a property expense.
type InvoiceCategory string

const (
	CategoryWorks       InvoiceCategory = "works"
	CategoryElectricity InvoiceCategory = "electricity"
	CategoryWater       InvoiceCategory = "water"
	CategoryGas         InvoiceCategory = "gas"
	CategoryInsurance   InvoiceCategory = "insurance"
	CategoryMaintenance InvoiceCategory = "maintenance"
	CategoryPropertyTax InvoiceCategory = "property_tax"
	CategoryOther       InvoiceCategory = "other"
)

// Valid reports whether c is one of the known categories.
func (c InvoiceCategory) Valid() bool {
	switch c {
	case CategoryWorks, CategoryElectricity, CategoryWater, CategoryGas,
		CategoryInsurance, CategoryMaintenance, CategoryPropertyTax, CategoryOther:
		return true
	}
	return false
}

// Invoice is an expense billed to a property by a supplier.
type Invoice struct {
	CreatedAt   time.Time       `gorm:"column:created_at" json:"createdAt"`
	Property    *Property       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Supplier    *string         `gorm:"size:150;column:supplier" json:"supplier,omitempty"`
	PaymentDate *Date           `gorm:"type:date;column:payment_date" json:"paymentDate,omitempty"`
	Description *string         `gorm:"type:text;column:description" json:"description,omitempty"`
	FilePath    *string         `gorm:"size:500;column:file_path" json:"filePath,omitempty"`
	InvoiceDate Date            `gorm:"type:date;not null;column:invoice_date" json:"invoiceDate"`
	Category    InvoiceCategory `gorm:"size:50;not null;index;column:category" json:"category"`
	Status      InvoiceStatus   `gorm:"size:20;not null;index;column:status" json:"status"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null;column:amount" json:"amount"`
	ID          uint            `gorm:"primaryKey" json:"id"`
	PropertyID  uint            `gorm:"not null;index;column:property_id" json:"propertyId"`
}

// TableName specifies the table name for GORM.
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceUpdate lists the client-mutable fields of an Invoice. Nil fields are
// left unchanged. PaidOn settles the invoice; Reopen reverts it to unpaid and
// wins over PaidOn.
type InvoiceUpdate struct {
	Category    *InvoiceCategory
	Supplier    *string
	Amount      *decimal.Decimal
	InvoiceDate *Date
	Description *string
	FilePath    *string
	PaidOn      *Date
	Reopen      bool
}

// Apply copies the set fields onto inv.
func (upd InvoiceUpdate) Apply(inv *Invoice) {
	if upd.Category != nil {
		inv.Category = *upd.Category
	}
	if upd.Supplier != nil {
		inv.Supplier = upd.Supplier
	}
	if upd.Amount != nil {
		inv.Amount = RoundCents(*upd.Amount)
	}
	if upd.InvoiceDate != nil {
		inv.InvoiceDate = *upd.InvoiceDate
	}
	if upd.Description != nil {
		inv.Description = upd.Description
	}
	if upd.FilePath != nil {
		inv.FilePath = upd.FilePath
	}

	switch {
	case upd.Reopen:
		inv.Status = InvoiceUnpaid
		inv.PaymentDate = nil
	case upd.PaidOn != nil:
		inv.Status = InvoicePaid
		inv.PaymentDate = upd.PaidOn
	}
}
