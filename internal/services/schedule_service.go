package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// ScheduleService generates the monthly payment obligations of a tenant.
type ScheduleService interface {
	// GenerateInitialSchedule creates one unpaid payment per month from
	// startMonth through December of year, each for the lease total.
	// Months that already hold a payment for the tenant are skipped.
	// Returns ErrInvalidReference when the lease or tenant is missing and
	// ErrInvalidState when the tenant is not on the lease.
	GenerateInitialSchedule(ctx context.Context, leaseID, tenantID uint, startMonth, year int) ([]models.Payment, error)
}

type scheduleService struct {
	store repository.Store
	log   *logger.Logger
}

// NewScheduleService creates a new instance of ScheduleService.
func NewScheduleService(store repository.Store, log *logger.Logger) ScheduleService {
	return &scheduleService{
		store: store,
		log:   log.WithComponent("schedule"),
	}
}

func (s *scheduleService) GenerateInitialSchedule(ctx context.Context, leaseID, tenantID uint, startMonth, year int) ([]models.Payment, error) {
	start := models.Period{Year: year, Month: startMonth}
	if !start.Valid() {
		return nil, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidInput, startMonth)
	}

	var created []models.Payment
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		lease, err := uow.Leases().FindByID(leaseID)
		if err != nil {
			return err
		}
		if lease == nil {
			return fmt.Errorf("%w: lease %d does not exist", ErrInvalidReference, leaseID)
		}
		tenant, err := uow.Tenants().FindByID(tenantID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return fmt.Errorf("%w: tenant %d does not exist", ErrInvalidReference, tenantID)
		}
		if tenant.LeaseID == nil || *tenant.LeaseID != lease.ID {
			return fmt.Errorf("%w: tenant %d is not on lease %d", ErrInvalidState, tenantID, leaseID)
		}

		created, err = generateSchedule(uow, lease, tenant, start)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	s.log.Info("Payment schedule generated", map[string]interface{}{
		"lease_id":  leaseID,
		"tenant_id": tenantID,
		"from":      start.String(),
		"created":   len(created),
	})
	return created, nil
}

// generateSchedule inserts the missing payments of tenant from start through
// December of the same year inside the caller's unit of work.
func generateSchedule(uow repository.UnitOfWork, lease *models.Lease, tenant *models.Tenant, start models.Period) ([]models.Payment, error) {
	existing, err := uow.Payments().MonthsWithPayments(tenant.ID, start.Year)
	if err != nil {
		return nil, err
	}

	amount := models.RoundCents(lease.Total())
	created := make([]models.Payment, 0, 12-start.Month+1)
	for month := start.Month; month <= 12; month++ {
		if existing[month] {
			continue
		}
		payment := models.Payment{
			TenantID: tenant.ID,
			UnitID:   lease.UnitID,
			Year:     start.Year,
			Month:    month,
			Amount:   amount,
			Status:   models.PaymentUnpaid,
		}
		if err := uow.Payments().Create(&payment); err != nil {
			return nil, err
		}
		created = append(created, payment)
	}
	return created, nil
}
