package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantUpdate_Share(t *testing.T) {
	share := decimal.NewFromInt(600)
	tenant := Tenant{Name: "Alice", RentShare: &share}

	TenantUpdate{}.Apply(&tenant)
	require.NotNil(t, tenant.RentShare, "keep must not touch the share")
	assert.True(t, share.Equal(*tenant.RentShare))

	TenantUpdate{Share: ShareChange{Op: ShareSet, Value: decimal.RequireFromString("333.333")}}.Apply(&tenant)
	require.NotNil(t, tenant.RentShare)
	assert.Equal(t, "333.33", tenant.RentShare.StringFixed(2))

	TenantUpdate{Share: ShareChange{Op: ShareClear}}.Apply(&tenant)
	assert.Nil(t, tenant.RentShare)
}

func TestTenantUpdate_Fields(t *testing.T) {
	tenant := Tenant{Name: "Alice", Active: true}
	name := "Alice Martin"
	inactive := false
	exit := NewDate(2025, time.June, 30)

	TenantUpdate{Name: &name, Active: &inactive, ExitDate: &exit}.Apply(&tenant)

	assert.Equal(t, "Alice Martin", tenant.Name)
	assert.False(t, tenant.Active)
	require.NotNil(t, tenant.ExitDate)
	assert.Equal(t, "2025-06-30", tenant.ExitDate.String())
}

func TestLeaseUpdate_Apply(t *testing.T) {
	end := NewDate(2026, time.August, 31)
	lease := Lease{}

	LeaseUpdate{EndDate: &end}.Apply(&lease)
	require.NotNil(t, lease.EndDate)

	LeaseUpdate{ClearEndDate: true, EndDate: &end}.Apply(&lease)
	assert.Nil(t, lease.EndDate, "clearing wins over setting")
}

func TestUnitUpdate_Apply(t *testing.T) {
	unit := Unit{Label: "Room 1", Rent: decimal.NewFromInt(500), Charges: decimal.NewFromInt(50)}
	rent := decimal.RequireFromString("525.456")

	UnitUpdate{Rent: &rent}.Apply(&unit)

	assert.Equal(t, "525.46", unit.Rent.StringFixed(2))
	assert.Equal(t, "Room 1", unit.Label)
	assert.Equal(t, "575.46", unit.Total().StringFixed(2))
}

func TestRentAmendment_Totals(t *testing.T) {
	a := RentAmendment{
		OldRent: decimal.NewFromInt(1000), OldCharges: decimal.NewFromInt(100),
		NewRent: decimal.NewFromInt(1200), NewCharges: decimal.NewFromInt(150),
	}
	assert.Equal(t, "1100", a.OldTotal().String())
	assert.Equal(t, "1350", a.NewTotal().String())
}

func TestRentAmendment_BeforeUpdateRejects(t *testing.T) {
	a := &RentAmendment{}
	assert.ErrorIs(t, a.BeforeUpdate(nil), ErrAmendmentImmutable)
}

func TestPropertyUpdate_Apply(t *testing.T) {
	property := Property{Address: "1 rue Victor Hugo", City: "Lille", PostalCode: "59000"}
	city := "  Roubaix "
	acquired := NewDate(2019, time.September, 12)

	PropertyUpdate{City: &city, AcquisitionDate: &acquired}.Apply(&property)

	assert.Equal(t, "Roubaix", property.City)
	assert.Equal(t, "1 rue Victor Hugo", property.Address)
	require.NotNil(t, property.AcquisitionDate)
	assert.Equal(t, "2019-09-12", property.AcquisitionDate.String())
	assert.Nil(t, property.Surface)
}

func TestInvoiceUpdate_Apply(t *testing.T) {
	invoice := Invoice{Category: CategoryWater, Amount: decimal.NewFromInt(80), Status: InvoiceUnpaid}
	paid := NewDate(2025, time.May, 2)
	amount := decimal.RequireFromString("82.499")

	InvoiceUpdate{Amount: &amount, PaidOn: &paid}.Apply(&invoice)
	assert.Equal(t, "82.50", invoice.Amount.StringFixed(2))
	assert.Equal(t, InvoicePaid, invoice.Status)
	require.NotNil(t, invoice.PaymentDate)
	assert.Equal(t, "2025-05-02", invoice.PaymentDate.String())

	InvoiceUpdate{Reopen: true, PaidOn: &paid}.Apply(&invoice)
	assert.Equal(t, InvoiceUnpaid, invoice.Status)
	assert.Nil(t, invoice.PaymentDate, "reopening wins over settling")

	InvoiceUpdate{}.Apply(&invoice)
	assert.Equal(t, CategoryWater, invoice.Category)
}

func TestInvoiceCategory_Valid(t *testing.T) {
	assert.True(t, CategoryPropertyTax.Valid())
	assert.False(t, InvoiceCategory("plumbing").Valid())
	assert.False(t, InvoiceCategory("").Valid())
}
