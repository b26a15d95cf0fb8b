package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/leasebook/internal/database"
	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// testEnv bundles an in-memory store with every service built on it.
type testEnv struct {
	db         *database.Database
	store      repository.Store
	registry   RegistryService
	leases     LeaseService
	tenants    TenantService
	schedule   ScheduleService
	payments   PaymentService
	amendments AmendmentService
	invoices   InvoiceService
	stats      StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))

	log := logger.New("test")
	store := repository.NewStore(db)
	return &testEnv{
		db:         db,
		store:      store,
		registry:   NewRegistryService(store, log),
		leases:     NewLeaseService(store, log),
		tenants:    NewTenantService(store, log),
		schedule:   NewScheduleService(store, log),
		payments:   NewPaymentService(store, nil, nil, log),
		amendments: NewAmendmentService(store, log),
		invoices:   NewInvoiceService(store, log),
		stats:      NewStatsService(store, log),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

// newUnit registers a property with one available unit.
func (e *testEnv) newUnit(t *testing.T, rent, charges string) *models.Unit {
	t.Helper()
	ctx := context.Background()

	property, err := e.registry.CreateProperty(ctx, NewProperty{Address: "8 rue Mercière", City: "Lyon", PostalCode: "69002"})
	require.NoError(t, err)

	unit, err := e.registry.CreateUnit(ctx, NewUnit{PropertyID: property.ID, Label: "Room 1", Rent: dec(rent), Charges: dec(charges)})
	require.NoError(t, err)
	return unit
}

// newLease opens a lease on a fresh unit starting 2025-01-01, with one tenant
// holding the given share (nil for the implicit split).
func (e *testEnv) newLease(t *testing.T, rent, charges string, share *decimal.Decimal) (*models.Lease, *models.Tenant) {
	t.Helper()
	ctx := context.Background()

	unit := e.newUnit(t, rent, charges)
	lease, err := e.leases.Create(ctx, NewLease{
		UnitID:    unit.ID,
		StartDate: models.NewDate(2025, time.January, 1),
		Rent:      unit.Rent,
		Charges:   unit.Charges,
		Tenant:    &NewTenant{Name: "Alice", RentShare: share, Deposit: dec("500")},
	})
	require.NoError(t, err)

	tenants, err := e.tenants.ListByLease(ctx, lease.ID)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	return lease, &tenants[0]
}

func (e *testEnv) paymentsOf(t *testing.T, tenantID uint) []models.Payment {
	t.Helper()
	payments, err := e.payments.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	return payments
}
