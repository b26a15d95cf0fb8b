package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the settlement state of a Payment.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentPartial:
		return true
	}
	return false
}

// Payment is one tenant's obligation for one month.
type Payment struct {
	CreatedAt        time.Time       `gorm:"column:created_at" json:"createdAt"`
	Tenant           *Tenant         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Unit             *Unit           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	PaymentDate      *Date           `gorm:"type:date;column:payment_date" json:"paymentDate,omitempty"`
	Method           *string         `gorm:"size:50;column:method" json:"method,omitempty"`
	Notes            *string         `gorm:"type:text;column:notes" json:"notes,omitempty"`
	ReceiptPath      *string         `gorm:"size:500;column:receipt_path" json:"receiptPath,omitempty"`
	ReceiptDate      *Date           `gorm:"type:date;column:receipt_date" json:"receiptDate,omitempty"`
	Status           PaymentStatus   `gorm:"size:20;not null;index;column:status" json:"status"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null;column:amount" json:"amount"`
	ID               uint            `gorm:"primaryKey" json:"id"`
	TenantID         uint            `gorm:"not null;uniqueIndex:idx_payment_period;column:tenant_id" json:"tenantId"`
	UnitID           uint            `gorm:"not null;index;column:unit_id" json:"unitId"`
	Year             int             `gorm:"not null;uniqueIndex:idx_payment_period;column:year" json:"year"`
	Month            int             `gorm:"not null;uniqueIndex:idx_payment_period;column:month" json:"month"`
	ReceiptGenerated bool            `gorm:"not null;column:receipt_generated" json:"receiptGenerated"`
}

// TableName specifies the table name for GORM.
func (Payment) TableName() string {
	return "payments"
}

// Period returns the billing month of the payment.
func (p Payment) Period() Period {
	return Period{Year: p.Year, Month: p.Month}
}

// AlertStatus is the outcome of one reminder attempt.
type AlertStatus string

const (
	AlertSent  AlertStatus = "sent"
	AlertError AlertStatus = "error"
)

// PaymentAlert records one unpaid-rent reminder attempt.
type PaymentAlert struct {
	SentAt    time.Time   `gorm:"autoCreateTime;index;column:sent_at" json:"sentAt"`
	Tenant    *Tenant     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Payment   *Payment    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Message   *string     `gorm:"type:text;column:message" json:"message,omitempty"`
	Status    AlertStatus `gorm:"size:20;not null;column:status" json:"status"`
	ID        uint        `gorm:"primaryKey" json:"id"`
	TenantID  uint        `gorm:"not null;index;column:tenant_id" json:"tenantId"`
	PaymentID uint        `gorm:"not null;index;column:payment_id" json:"paymentId"`
}

// TableName specifies the table name for GORM.
func (PaymentAlert) TableName() string {
	return "payment_alerts"
}
