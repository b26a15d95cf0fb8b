package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

func TestInvoices_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	unit := env.newUnit(t, "500", "30")

	invoice, err := env.invoices.Create(ctx, NewInvoice{
		PropertyID:  unit.PropertyID,
		Category:    models.CategoryElectricity,
		Supplier:    strPtr("  EDF "),
		Amount:      dec("84.456"),
		InvoiceDate: models.NewDate(2025, time.February, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceUnpaid, invoice.Status)
	assert.Equal(t, "84.46", invoice.Amount.StringFixed(2))
	require.NotNil(t, invoice.Supplier)
	assert.Equal(t, "EDF", *invoice.Supplier)
	assert.Nil(t, invoice.PaymentDate)

	paidOn := models.NewDate(2025, time.February, 20)
	settled, err := env.invoices.Create(ctx, NewInvoice{
		PropertyID:  unit.PropertyID,
		Category:    models.CategoryInsurance,
		Amount:      dec("310"),
		InvoiceDate: models.NewDate(2025, time.January, 5),
		PaidOn:      &paidOn,
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, settled.Status)

	all, err := env.invoices.List(ctx, repository.InvoiceFilter{PropertyID: &unit.PropertyID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, invoice.ID, all[0].ID)

	unpaid, err := env.invoices.List(ctx, repository.InvoiceFilter{UnpaidOnly: true})
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, invoice.ID, unpaid[0].ID)

	updated, err := env.invoices.Update(ctx, invoice.ID, models.InvoiceUpdate{PaidOn: &paidOn, Amount: decPtr("90")})
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, updated.Status)
	assert.Equal(t, "90.00", updated.Amount.StringFixed(2))
	require.NotNil(t, updated.PaymentDate)
	assert.Equal(t, "2025-02-20", updated.PaymentDate.String())

	reopened, err := env.invoices.Update(ctx, invoice.ID, models.InvoiceUpdate{Reopen: true})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceUnpaid, reopened.Status)
	assert.Nil(t, reopened.PaymentDate)

	deleted, err := env.invoices.Delete(ctx, settled.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := env.invoices.Get(ctx, settled.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err = env.invoices.Delete(ctx, settled.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestInvoices_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	unit := env.newUnit(t, "500", "30")
	date := models.NewDate(2025, time.March, 1)

	tests := []struct {
		name string
		in   NewInvoice
		want error
	}{
		{"missing property", NewInvoice{PropertyID: 999, Category: models.CategoryWater, Amount: dec("10"), InvoiceDate: date}, ErrInvalidReference},
		{"unknown category", NewInvoice{PropertyID: unit.PropertyID, Category: "plumbing", Amount: dec("10"), InvoiceDate: date}, ErrInvalidInput},
		{"zero amount", NewInvoice{PropertyID: unit.PropertyID, Category: models.CategoryWater, Amount: dec("0"), InvoiceDate: date}, ErrInvalidInput},
		{"negative amount", NewInvoice{PropertyID: unit.PropertyID, Category: models.CategoryWater, Amount: dec("-5"), InvoiceDate: date}, ErrInvalidInput},
		{"missing date", NewInvoice{PropertyID: unit.PropertyID, Category: models.CategoryWater, Amount: dec("10")}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.invoices.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := env.invoices.Update(ctx, 999, models.InvoiceUpdate{Reopen: true})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.invoices.Update(ctx, 1, models.InvoiceUpdate{Amount: decPtr("0")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.invoices.List(ctx, repository.InvoiceFilter{Category: "plumbing"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInvoices_BlockPropertyDeletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	unit := env.newUnit(t, "500", "30")

	invoice, err := env.invoices.Create(ctx, NewInvoice{PropertyID: unit.PropertyID, Category: models.CategoryPropertyTax, Amount: dec("1200"), InvoiceDate: models.NewDate(2025, time.October, 15)})
	require.NoError(t, err)

	deleted, err := env.registry.DeleteUnit(ctx, unit.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = env.registry.DeleteProperty(ctx, unit.PropertyID)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = env.invoices.Delete(ctx, invoice.ID)
	require.NoError(t, err)

	deleted, err = env.registry.DeleteProperty(ctx, unit.PropertyID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
