package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/leasebook/internal/database"
	"github.com/stwalsh4118/leasebook/internal/models"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := database.NewSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))

	return NewStore(db)
}

type fixture struct {
	property models.Property
	unit     models.Unit
	lease    models.Lease
	tenant   models.Tenant
}

func seed(t *testing.T, store Store) fixture {
	t.Helper()

	var f fixture
	err := store.Atomic(context.Background(), func(uow UnitOfWork) error {
		f.property = models.Property{Address: "3 quai Saint-Vincent", City: "Lyon", PostalCode: "69001"}
		if err := uow.Properties().Create(&f.property); err != nil {
			return err
		}
		f.unit = models.Unit{PropertyID: f.property.ID, Label: "Room A", Rent: decimal.NewFromInt(500), Charges: decimal.NewFromInt(50)}
		if err := uow.Units().Create(&f.unit); err != nil {
			return err
		}
		f.lease = models.Lease{UnitID: f.unit.ID, StartDate: models.NewDate(2025, time.January, 1), Rent: f.unit.Rent, Charges: f.unit.Charges, Active: true}
		if err := uow.Leases().Create(&f.lease); err != nil {
			return err
		}
		f.tenant = models.Tenant{LeaseID: &f.lease.ID, Name: "Camille", EntryDate: f.lease.StartDate, Deposit: decimal.NewFromInt(550), Active: true}
		return uow.Tenants().Create(&f.tenant)
	})
	require.NoError(t, err)
	return f
}

func addPayment(t *testing.T, store Store, f fixture, year, month int, status models.PaymentStatus) models.Payment {
	t.Helper()

	p := models.Payment{TenantID: f.tenant.ID, UnitID: f.unit.ID, Year: year, Month: month, Amount: decimal.NewFromInt(550), Status: status}
	require.NoError(t, store.Atomic(context.Background(), func(uow UnitOfWork) error {
		return uow.Payments().Create(&p)
	}))
	return p
}

func TestStore_FindByIDMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	err := store.View(context.Background(), func(uow UnitOfWork) error {
		lease, err := uow.Leases().FindByID(42)
		assert.NoError(t, err)
		assert.Nil(t, lease)

		tenant, err := uow.Tenants().FindByID(42)
		assert.NoError(t, err)
		assert.Nil(t, tenant)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_AtomicRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	boom := errors.New("boom")

	err := store.Atomic(context.Background(), func(uow UnitOfWork) error {
		p := models.Property{Address: "1 rue Neuve", City: "Lyon", PostalCode: "69002"}
		if err := uow.Properties().Create(&p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, store.View(context.Background(), func(uow UnitOfWork) error {
		n, err := uow.Properties().Count()
		assert.Equal(t, int64(0), n)
		return err
	}))
}

func TestStore_TranslatesConstraintFailures(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)

	err := store.Atomic(context.Background(), func(uow UnitOfWork) error {
		_, err := uow.Units().Delete(f.unit.ID)
		return err
	})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	addPayment(t, store, f, 2025, 1, models.PaymentUnpaid)
	err = store.Atomic(context.Background(), func(uow UnitOfWork) error {
		dup := models.Payment{TenantID: f.tenant.ID, UnitID: f.unit.ID, Year: 2025, Month: 1, Amount: decimal.NewFromInt(1), Status: models.PaymentUnpaid}
		return uow.Payments().Create(&dup)
	})
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, translate(plain))

	wrapped := translate(errors.New("FOREIGN KEY constraint failed"))
	assert.ErrorIs(t, wrapped, ErrConstraintViolation)
	assert.ErrorIs(t, translate(wrapped), ErrConstraintViolation)
}

func TestPaymentRepository_UpdateAmountFrom(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)

	addPayment(t, store, f, 2024, 12, models.PaymentUnpaid)
	addPayment(t, store, f, 2025, 2, models.PaymentPaid)
	addPayment(t, store, f, 2025, 3, models.PaymentUnpaid)
	addPayment(t, store, f, 2026, 1, models.PaymentUnpaid)

	var touched int64
	require.NoError(t, store.Atomic(context.Background(), func(uow UnitOfWork) error {
		var err error
		touched, err = uow.Payments().UpdateAmountFrom(f.tenant.ID, models.Period{Year: 2025, Month: 2}, decimal.RequireFromString("612.34"))
		return err
	}))
	assert.Equal(t, int64(3), touched)

	require.NoError(t, store.View(context.Background(), func(uow UnitOfWork) error {
		payments, err := uow.Payments().ListByTenant(f.tenant.ID)
		require.NoError(t, err)
		require.Len(t, payments, 4)

		assert.Equal(t, "550.00", payments[0].Amount.StringFixed(2))
		for _, p := range payments[1:] {
			assert.Equal(t, "612.34", p.Amount.StringFixed(2), "period %s", p.Period())
		}
		return nil
	}))
}

func TestPaymentRepository_Queries(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)

	addPayment(t, store, f, 2025, 1, models.PaymentPaid)
	addPayment(t, store, f, 2025, 2, models.PaymentUnpaid)
	addPayment(t, store, f, 2025, 3, models.PaymentPartial)
	addPayment(t, store, f, 2025, 4, models.PaymentUnpaid)

	require.NoError(t, store.View(context.Background(), func(uow UnitOfWork) error {
		outstanding, err := uow.Payments().ListOutstanding(models.Period{Year: 2025, Month: 3})
		require.NoError(t, err)
		require.Len(t, outstanding, 1)
		assert.Equal(t, 2, outstanding[0].Month)

		months, err := uow.Payments().MonthsWithPayments(f.tenant.ID, 2025)
		require.NoError(t, err)
		assert.Equal(t, map[int]bool{1: true, 2: true, 3: true, 4: true}, months)

		byPeriod, err := uow.Payments().ListByPeriod(models.Period{Year: 2025, Month: 3})
		require.NoError(t, err)
		require.Len(t, byPeriod, 1)
		assert.Equal(t, models.PaymentPartial, byPeriod[0].Status)

		unpaid, err := uow.Payments().CountByStatus(models.PaymentUnpaid)
		require.NoError(t, err)
		assert.Equal(t, int64(2), unpaid)

		sum, err := uow.Payments().SumPaid(models.Period{Year: 2025, Month: 1})
		require.NoError(t, err)
		assert.Equal(t, "550.00", sum.StringFixed(2))

		none, err := uow.Payments().SumPaid(models.Period{Year: 2025, Month: 2})
		require.NoError(t, err)
		assert.True(t, none.IsZero())
		return nil
	}))
}

func TestPaymentRepository_MarkReceipt(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	p := addPayment(t, store, f, 2025, 5, models.PaymentPaid)

	require.NoError(t, store.Atomic(context.Background(), func(uow UnitOfWork) error {
		return uow.Payments().MarkReceipt(p.ID, "/archive/2025/05/camille.pdf", models.NewDate(2025, time.May, 6))
	}))

	require.NoError(t, store.View(context.Background(), func(uow UnitOfWork) error {
		loaded, err := uow.Payments().FindByID(p.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.True(t, loaded.ReceiptGenerated)
		require.NotNil(t, loaded.ReceiptPath)
		assert.Equal(t, "/archive/2025/05/camille.pdf", *loaded.ReceiptPath)
		require.NotNil(t, loaded.ReceiptDate)
		assert.Equal(t, "2025-05-06", loaded.ReceiptDate.String())
		return nil
	}))
}

func TestAlertRepository_SentSince(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	p := addPayment(t, store, f, 2025, 2, models.PaymentUnpaid)

	sentAt := time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Atomic(context.Background(), func(uow UnitOfWork) error {
		return uow.Alerts().Create(&models.PaymentAlert{TenantID: f.tenant.ID, PaymentID: p.ID, Status: models.AlertSent, SentAt: sentAt})
	}))

	require.NoError(t, store.View(context.Background(), func(uow UnitOfWork) error {
		sent, err := uow.Alerts().SentSince(f.tenant.ID, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, sent)

		sent, err = uow.Alerts().SentSince(f.tenant.ID, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, sent)
		return nil
	}))
}

func TestTenantRepository_DetachAndClose(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)

	require.NoError(t, store.Atomic(context.Background(), func(uow UnitOfWork) error {
		n, err := uow.Tenants().CloseByLease(f.lease.ID, models.NewDate(2025, time.June, 30))
		assert.Equal(t, int64(1), n)
		return err
	}))

	require.NoError(t, store.View(context.Background(), func(uow UnitOfWork) error {
		tenant, err := uow.Tenants().FindByID(f.tenant.ID)
		require.NoError(t, err)
		assert.False(t, tenant.Active)
		require.NotNil(t, tenant.ExitDate)
		assert.Equal(t, "2025-06-30", tenant.ExitDate.String())
		return nil
	}))

	require.NoError(t, store.Atomic(context.Background(), func(uow UnitOfWork) error {
		_, err := uow.Tenants().DetachFromLease(f.lease.ID)
		return err
	}))

	require.NoError(t, store.View(context.Background(), func(uow UnitOfWork) error {
		ids, err := uow.Tenants().IDsByLease(f.lease.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)

		tenant, err := uow.Tenants().FindByID(f.tenant.ID)
		require.NoError(t, err)
		assert.Nil(t, tenant.LeaseID)
		return nil
	}))
}

func TestLeaseRepository_ActiveAndHistory(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)

	require.NoError(t, store.Atomic(context.Background(), func(uow UnitOfWork) error {
		for _, m := range []time.Month{time.March, time.July} {
			a := models.RentAmendment{
				LeaseID: f.lease.ID, EffectiveDate: models.NewDate(2025, m, 1),
				OldRent: decimal.NewFromInt(500), NewRent: decimal.NewFromInt(520),
				OldCharges: decimal.NewFromInt(50), NewCharges: decimal.NewFromInt(50),
			}
			if err := uow.Amendments().Create(&a); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, store.View(context.Background(), func(uow UnitOfWork) error {
		active, err := uow.Leases().FindActiveByUnit(f.unit.ID)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, f.lease.ID, active.ID)

		history, err := uow.Amendments().ListByLease(f.lease.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "2025-07-01", history[0].EffectiveDate.String())
		return nil
	}))
}

func TestInvoiceRepository(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	ctx := context.Background()

	supplier := "EDF"
	err := store.Atomic(ctx, func(uow UnitOfWork) error {
		invoices := []models.Invoice{
			{PropertyID: f.property.ID, Category: models.CategoryElectricity, Supplier: &supplier, Amount: decimal.RequireFromString("120.40"), InvoiceDate: models.NewDate(2025, time.February, 3), Status: models.InvoiceUnpaid},
			{PropertyID: f.property.ID, Category: models.CategoryWater, Amount: decimal.NewFromInt(45), InvoiceDate: models.NewDate(2025, time.March, 1), Status: models.InvoicePaid, PaymentDate: models.NewDate(2025, time.March, 9).Ptr()},
			{PropertyID: f.property.ID, Category: models.CategoryElectricity, Amount: decimal.RequireFromString("98.10"), InvoiceDate: models.NewDate(2025, time.April, 2), Status: models.InvoiceUnpaid},
		}
		for i := range invoices {
			if err := uow.Invoices().Create(&invoices[i]); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, store.View(ctx, func(uow UnitOfWork) error {
		all, err := uow.Invoices().List(InvoiceFilter{PropertyID: &f.property.ID})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "2025-04-02", all[0].InvoiceDate.String(), "newest first")

		electricity, err := uow.Invoices().List(InvoiceFilter{Category: models.CategoryElectricity})
		require.NoError(t, err)
		assert.Len(t, electricity, 2)

		unpaid, err := uow.Invoices().List(InvoiceFilter{UnpaidOnly: true, Category: models.CategoryWater})
		require.NoError(t, err)
		assert.Empty(t, unpaid)

		n, err := uow.Invoices().CountUnpaid()
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		due, err := uow.Invoices().SumUnpaid()
		require.NoError(t, err)
		assert.Equal(t, "218.50", due.StringFixed(2))
		return nil
	}))

	t.Run("property with invoices cannot be deleted", func(t *testing.T) {
		bare := models.Property{Address: "8 rue Mercière", City: "Lyon", PostalCode: "69002"}
		require.NoError(t, store.Atomic(ctx, func(uow UnitOfWork) error {
			if err := uow.Properties().Create(&bare); err != nil {
				return err
			}
			return uow.Invoices().Create(&models.Invoice{PropertyID: bare.ID, Category: models.CategoryPropertyTax, Amount: decimal.NewFromInt(900), InvoiceDate: models.NewDate(2025, time.October, 15), Status: models.InvoiceUnpaid})
		}))

		err := store.Atomic(ctx, func(uow UnitOfWork) error {
			_, err := uow.Properties().Delete(bare.ID)
			return err
		})
		assert.ErrorIs(t, err, ErrConstraintViolation)
	})
}

func TestPropertyRepository_Save(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	ctx := context.Background()

	acquired := models.NewDate(2018, time.June, 1)
	require.NoError(t, store.Atomic(ctx, func(uow UnitOfWork) error {
		f.property.AcquisitionDate = &acquired
		return uow.Properties().Save(&f.property)
	}))

	require.NoError(t, store.View(ctx, func(uow UnitOfWork) error {
		loaded, err := uow.Properties().FindByID(f.property.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.NotNil(t, loaded.AcquisitionDate)
		assert.Equal(t, "2018-06-01", loaded.AcquisitionDate.String())
		return nil
	}))
}
