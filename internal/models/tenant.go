package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is a person on a lease. A nil RentShare means the tenant pays an
// equal split of the lease total.
type Tenant struct {
	CreatedAt time.Time        `gorm:"column:created_at" json:"createdAt"`
	Lease     *Lease           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	LeaseID   *uint            `gorm:"index;column:lease_id" json:"leaseId,omitempty"`
	Email     *string          `gorm:"size:150;column:email" json:"email,omitempty"`
	Phone     *string          `gorm:"size:20;column:phone" json:"phone,omitempty"`
	ExitDate  *Date            `gorm:"type:date;column:exit_date" json:"exitDate,omitempty"`
	RentShare *decimal.Decimal `gorm:"type:numeric(12,2);column:rent_share" json:"rentShare,omitempty"`
	Notes     *string          `gorm:"type:text;column:notes" json:"notes,omitempty"`
	Name      string           `gorm:"size:200;not null;column:name" json:"name"`
	EntryDate Date             `gorm:"type:date;not null;column:entry_date" json:"entryDate"`
	Deposit   decimal.Decimal  `gorm:"type:numeric(12,2);not null;column:deposit" json:"deposit"`
	ID        uint             `gorm:"primaryKey" json:"id"`
	Active    bool             `gorm:"not null;index;column:active" json:"active"`
}

// TableName specifies the table name for GORM.
func (Tenant) TableName() string {
	return "tenants"
}

// HasExplicitShare reports whether the tenant carries its own rent share.
func (t Tenant) HasExplicitShare() bool {
	return t.RentShare != nil
}

// ShareOp selects what a TenantUpdate does with the rent share.
type ShareOp int

const (
	// ShareKeep leaves the share untouched.
	ShareKeep ShareOp = iota
	// ShareSet replaces the share with Value.
	ShareSet
	// ShareClear reverts to the implicit equal split.
	ShareClear
)

// ShareChange is the rent-share part of a TenantUpdate.
type ShareChange struct {
	Op    ShareOp
	Value decimal.Decimal
}

// TenantUpdate lists the client-mutable fields of a Tenant. Nil fields are left unchanged.
type TenantUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	ExitDate *Date
	Deposit  *decimal.Decimal
	Active   *bool
	Notes    *string
	Share    ShareChange
}

// Apply copies the set fields onto t.
func (upd TenantUpdate) Apply(t *Tenant) {
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Email != nil {
		t.Email = upd.Email
	}
	if upd.Phone != nil {
		t.Phone = upd.Phone
	}
	if upd.ExitDate != nil {
		t.ExitDate = upd.ExitDate
	}
	if upd.Deposit != nil {
		deposit := RoundCents(*upd.Deposit)
		t.Deposit = deposit
	}
	if upd.Active != nil {
		t.Active = *upd.Active
	}
	if upd.Notes != nil {
		t.Notes = upd.Notes
	}

	switch upd.Share.Op {
	case ShareSet:
		share := RoundCents(upd.Share.Value)
		t.RentShare = &share
	case ShareClear:
		t.RentShare = nil
	}
}
