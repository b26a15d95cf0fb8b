package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// NewTenant holds the fields needed to register a tenant. A nil RentShare
// puts the tenant on the implicit equal split.
type NewTenant struct {
	LeaseID   *uint
	Name      string
	Email     *string
	Phone     *string
	EntryDate models.Date
	Deposit   decimal.Decimal
	RentShare *decimal.Decimal
	Notes     *string
}

// TenantService manages the people bound to leases.
type TenantService interface {
	// Add returns ErrInvalidReference when LeaseID names a missing lease and
	// ErrInvalidState when the rent share is negative.
	Add(ctx context.Context, in NewTenant) (*models.Tenant, error)

	Get(ctx context.Context, id uint) (*models.Tenant, error)
	List(ctx context.Context, activeOnly bool) ([]models.Tenant, error)
	ListByLease(ctx context.Context, leaseID uint) ([]models.Tenant, error)

	// Alerts returns the unpaid-rent reminders sent to the tenant, oldest
	// first, or ErrNotFound when the tenant is absent.
	Alerts(ctx context.Context, tenantID uint) ([]models.PaymentAlert, error)

	// Update returns ErrNotFound when the tenant is absent.
	Update(ctx context.Context, id uint, upd models.TenantUpdate) (*models.Tenant, error)

	// Remove deletes the tenant together with its alerts and payments.
	Remove(ctx context.Context, id uint) (bool, error)
}

type tenantService struct {
	store repository.Store
	log   *logger.Logger
}

// NewTenantService creates a new instance of TenantService.
func NewTenantService(store repository.Store, log *logger.Logger) TenantService {
	return &tenantService{
		store: store,
		log:   log.WithComponent("tenants"),
	}
}

func (s *tenantService) Add(ctx context.Context, in NewTenant) (*models.Tenant, error) {
	tenant, err := buildTenant(in)
	if err != nil {
		s.log.Warn("Rejected tenant", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	err = s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var lease *models.Lease
		if in.LeaseID != nil {
			var err error
			lease, err = uow.Leases().FindByID(*in.LeaseID)
			if err != nil {
				return err
			}
			if lease == nil {
				return fmt.Errorf("%w: lease %d does not exist", ErrInvalidReference, *in.LeaseID)
			}
		}

		if err := uow.Tenants().Create(tenant); err != nil {
			return err
		}
		if lease != nil {
			return warnOnShareOverflow(uow, lease, s.log)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add tenant: %w", err)
	}

	s.log.Info("Tenant added", map[string]interface{}{
		"tenant_id": tenant.ID,
		"lease_id":  tenant.LeaseID,
		"explicit":  tenant.HasExplicitShare(),
	})
	return tenant, nil
}

func (s *tenantService) Get(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant *models.Tenant
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		tenant, err = uow.Tenants().FindByID(id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	return tenant, nil
}

func (s *tenantService) List(ctx context.Context, activeOnly bool) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		tenants, err = uow.Tenants().List(activeOnly)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

func (s *tenantService) ListByLease(ctx context.Context, leaseID uint) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		tenants, err = uow.Tenants().ListByLease(leaseID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants of lease %d: %w", leaseID, err)
	}
	return tenants, nil
}

func (s *tenantService) Alerts(ctx context.Context, tenantID uint) ([]models.PaymentAlert, error) {
	var alerts []models.PaymentAlert
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		tenant, err := uow.Tenants().FindByID(tenantID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return fmt.Errorf("%w: tenant %d", ErrNotFound, tenantID)
		}
		alerts, err = uow.Alerts().ListByTenant(tenantID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts of tenant %d: %w", tenantID, err)
	}
	return alerts, nil
}

func (s *tenantService) Update(ctx context.Context, id uint, upd models.TenantUpdate) (*models.Tenant, error) {
	if upd.Share.Op == models.ShareSet && upd.Share.Value.IsNegative() {
		s.log.Warn("Rejected negative rent share", map[string]interface{}{
			"tenant_id": id,
			"share":     upd.Share.Value.String(),
		})
		return nil, fmt.Errorf("%w: rent share must not be negative", ErrInvalidState)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: tenant name is required", ErrInvalidInput)
	}
	if upd.Deposit != nil && upd.Deposit.IsNegative() {
		return nil, fmt.Errorf("%w: deposit must not be negative", ErrInvalidInput)
	}

	var tenant *models.Tenant
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		tenant, err = uow.Tenants().FindByID(id)
		if err != nil {
			return err
		}
		if tenant == nil {
			return fmt.Errorf("%w: tenant %d", ErrNotFound, id)
		}

		upd.Apply(tenant)
		if err := uow.Tenants().Save(tenant); err != nil {
			return err
		}

		if upd.Share.Op == models.ShareSet && tenant.LeaseID != nil {
			lease, err := uow.Leases().FindByID(*tenant.LeaseID)
			if err != nil {
				return err
			}
			if lease != nil {
				return warnOnShareOverflow(uow, lease, s.log)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	s.log.Info("Tenant updated", map[string]interface{}{"tenant_id": id})
	return tenant, nil
}

func (s *tenantService) Remove(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		ids := []uint{id}
		if _, err := uow.Alerts().DeleteByTenants(ids); err != nil {
			return err
		}
		if _, err := uow.Payments().DeleteByTenants(ids); err != nil {
			return err
		}
		var err error
		deleted, err = uow.Tenants().Delete(id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove tenant %d: %w", id, err)
	}
	if deleted {
		s.log.Info("Tenant removed", map[string]interface{}{"tenant_id": id})
	}
	return deleted, nil
}

// buildTenant validates in and returns the row to insert.
func buildTenant(in NewTenant) (*models.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tenant name is required", ErrInvalidInput)
	}
	if in.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", ErrInvalidInput)
	}
	if in.Deposit.IsNegative() {
		return nil, fmt.Errorf("%w: deposit must not be negative", ErrInvalidInput)
	}

	tenant := &models.Tenant{
		LeaseID:   in.LeaseID,
		Name:      name,
		Email:     in.Email,
		Phone:     in.Phone,
		EntryDate: in.EntryDate,
		Deposit:   models.RoundCents(in.Deposit),
		Notes:     in.Notes,
		Active:    true,
	}
	if in.RentShare != nil {
		if in.RentShare.IsNegative() {
			return nil, fmt.Errorf("%w: rent share must not be negative", ErrInvalidState)
		}
		share := models.RoundCents(*in.RentShare)
		tenant.RentShare = &share
	}
	return tenant, nil
}

// warnOnShareOverflow logs when the explicit shares of a lease add up to more
// than its total. The configuration is kept.
func warnOnShareOverflow(uow repository.UnitOfWork, lease *models.Lease, log *logger.Logger) error {
	tenants, err := uow.Tenants().ListByLease(lease.ID)
	if err != nil {
		return err
	}

	sum := decimal.Zero
	for _, t := range tenants {
		if t.HasExplicitShare() {
			sum = sum.Add(*t.RentShare)
		}
	}
	if sum.GreaterThan(lease.Total()) {
		log.Warn("Explicit rent shares exceed lease total", map[string]interface{}{
			"lease_id": lease.ID,
			"shares":   sum.StringFixed(2),
			"total":    lease.Total().StringFixed(2),
		})
	}
	return nil
}
