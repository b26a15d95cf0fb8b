package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// NewLease holds the fields needed to open a lease. When Tenant is set the
// tenant is bound to the new lease and receives its initial schedule.
type NewLease struct {
	UnitID    uint
	StartDate models.Date
	EndDate   *models.Date
	Rent      decimal.Decimal
	Charges   decimal.Decimal
	Notes     *string
	Tenant    *NewTenant
}

// LeaseService manages the lifecycle of leases.
type LeaseService interface {
	// Create returns ErrInvalidReference when the unit is missing and
	// ErrInvalidState when the unit already has an active lease.
	Create(ctx context.Context, in NewLease) (*models.Lease, error)

	Get(ctx context.Context, id uint) (*models.Lease, error)
	List(ctx context.Context, activeOnly bool) ([]models.Lease, error)
	ListByUnit(ctx context.Context, unitID uint) ([]models.Lease, error)

	// Update changes the end date and notes. Rent and charges only change
	// through an amendment.
	Update(ctx context.Context, id uint, upd models.LeaseUpdate) (*models.Lease, error)

	// Close ends an active lease, frees its unit and checks out its tenants.
	Close(ctx context.Context, id uint, endDate models.Date) (*models.Lease, error)

	// Delete removes the lease, its amendment history and the payments and
	// alerts of its tenants, detaches the tenants and frees the unit.
	Delete(ctx context.Context, id uint) (bool, error)

	// History returns the amendments of a lease, newest effective date first.
	History(ctx context.Context, id uint) ([]models.RentAmendment, error)
}

type leaseService struct {
	store repository.Store
	log   *logger.Logger
}

// NewLeaseService creates a new instance of LeaseService.
func NewLeaseService(store repository.Store, log *logger.Logger) LeaseService {
	return &leaseService{
		store: store,
		log:   log.WithComponent("leases"),
	}
}

func (s *leaseService) Create(ctx context.Context, in NewLease) (*models.Lease, error) {
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if in.Rent.IsNegative() || in.Charges.IsNegative() {
		return nil, fmt.Errorf("%w: rent and charges must not be negative", ErrInvalidInput)
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate.Time) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidInput, in.EndDate, in.StartDate)
	}

	var tenant *models.Tenant
	if in.Tenant != nil {
		tenantIn := *in.Tenant
		if tenantIn.EntryDate.IsZero() {
			tenantIn.EntryDate = in.StartDate
		}
		var err error
		if tenant, err = buildTenant(tenantIn); err != nil {
			return nil, err
		}
	}

	lease := models.Lease{
		UnitID:    in.UnitID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Rent:      models.RoundCents(in.Rent),
		Charges:   models.RoundCents(in.Charges),
		Notes:     in.Notes,
		Active:    true,
	}

	var scheduled int
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		unit, err := uow.Units().FindByID(in.UnitID)
		if err != nil {
			return err
		}
		if unit == nil {
			return fmt.Errorf("%w: unit %d does not exist", ErrInvalidReference, in.UnitID)
		}

		current, err := uow.Leases().FindActiveByUnit(unit.ID)
		if err != nil {
			return err
		}
		if current != nil {
			s.log.Warn("Unit already has an active lease", map[string]interface{}{
				"unit_id":  unit.ID,
				"lease_id": current.ID,
			})
			return fmt.Errorf("%w: unit %d already has active lease %d", ErrInvalidState, unit.ID, current.ID)
		}

		if err := uow.Leases().Create(&lease); err != nil {
			return err
		}
		if err := uow.Units().SetAvailable(unit.ID, false); err != nil {
			return err
		}

		if tenant == nil {
			return nil
		}
		tenant.LeaseID = &lease.ID
		if err := uow.Tenants().Create(tenant); err != nil {
			return err
		}
		if err := warnOnShareOverflow(uow, &lease, s.log); err != nil {
			return err
		}
		payments, err := generateSchedule(uow, &lease, tenant, models.PeriodOf(lease.StartDate))
		scheduled = len(payments)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lease: %w", err)
	}

	fields := map[string]interface{}{
		"lease_id":  lease.ID,
		"unit_id":   lease.UnitID,
		"total":     lease.Total().StringFixed(2),
		"scheduled": scheduled,
	}
	if tenant != nil {
		fields["tenant_id"] = tenant.ID
	}
	s.log.Info("Lease created", fields)
	return &lease, nil
}

func (s *leaseService) Get(ctx context.Context, id uint) (*models.Lease, error) {
	var lease *models.Lease
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		lease, err = uow.Leases().FindByID(id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load lease: %w", err)
	}
	return lease, nil
}

func (s *leaseService) List(ctx context.Context, activeOnly bool) ([]models.Lease, error) {
	var leases []models.Lease
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		leases, err = uow.Leases().List(activeOnly)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	return leases, nil
}

func (s *leaseService) ListByUnit(ctx context.Context, unitID uint) ([]models.Lease, error) {
	var leases []models.Lease
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		leases, err = uow.Leases().ListByUnit(unitID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leases of unit %d: %w", unitID, err)
	}
	return leases, nil
}

func (s *leaseService) Update(ctx context.Context, id uint, upd models.LeaseUpdate) (*models.Lease, error) {
	var lease *models.Lease
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		lease, err = uow.Leases().FindByID(id)
		if err != nil {
			return err
		}
		if lease == nil {
			return fmt.Errorf("%w: lease %d", ErrNotFound, id)
		}

		upd.Apply(lease)
		if lease.EndDate != nil && lease.EndDate.Before(lease.StartDate.Time) {
			return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidInput, lease.EndDate, lease.StartDate)
		}
		return uow.Leases().Save(lease)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update lease: %w", err)
	}

	s.log.Info("Lease updated", map[string]interface{}{"lease_id": id})
	return lease, nil
}

func (s *leaseService) Close(ctx context.Context, id uint, endDate models.Date) (*models.Lease, error) {
	if endDate.IsZero() {
		return nil, fmt.Errorf("%w: end date is required", ErrInvalidInput)
	}

	var lease *models.Lease
	var checkedOut int64
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		lease, err = uow.Leases().FindByID(id)
		if err != nil {
			return err
		}
		if lease == nil {
			return fmt.Errorf("%w: lease %d", ErrNotFound, id)
		}
		if !lease.Active {
			return fmt.Errorf("%w: lease %d is already closed", ErrInvalidState, id)
		}
		if endDate.Before(lease.StartDate.Time) {
			return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidInput, endDate, lease.StartDate)
		}

		lease.Active = false
		lease.EndDate = endDate.Ptr()
		if err := uow.Leases().Save(lease); err != nil {
			return err
		}
		if err := uow.Units().SetAvailable(lease.UnitID, true); err != nil {
			return err
		}
		checkedOut, err = uow.Tenants().CloseByLease(lease.ID, endDate)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to close lease: %w", err)
	}

	s.log.Info("Lease closed", map[string]interface{}{
		"lease_id": id,
		"end_date": endDate.String(),
		"tenants":  checkedOut,
	})
	return lease, nil
}

func (s *leaseService) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	var payments int64
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		lease, err := uow.Leases().FindByID(id)
		if err != nil || lease == nil {
			return err
		}

		tenantIDs, err := uow.Tenants().IDsByLease(id)
		if err != nil {
			return err
		}
		if _, err := uow.Alerts().DeleteByTenants(tenantIDs); err != nil {
			return err
		}
		if payments, err = uow.Payments().DeleteByTenants(tenantIDs); err != nil {
			return err
		}
		if _, err := uow.Amendments().DeleteByLease(id); err != nil {
			return err
		}
		if _, err := uow.Tenants().DetachFromLease(id); err != nil {
			return err
		}
		if deleted, err = uow.Leases().Delete(id); err != nil {
			return err
		}
		return uow.Units().SetAvailable(lease.UnitID, true)
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete lease %d: %w", id, err)
	}

	if deleted {
		s.log.Info("Lease deleted", map[string]interface{}{
			"lease_id": id,
			"payments": payments,
		})
	}
	return deleted, nil
}

func (s *leaseService) History(ctx context.Context, id uint) ([]models.RentAmendment, error) {
	var history []models.RentAmendment
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		history, err = uow.Amendments().ListByLease(id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history of lease %d: %w", id, err)
	}
	return history, nil
}
