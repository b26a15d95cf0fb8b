package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// Amendment describes a rent/charges change on a lease.
type Amendment struct {
	LeaseID       uint
	NewRent       decimal.Decimal
	NewCharges    decimal.Decimal
	EffectiveDate models.Date
	Notes         *string
}

// AmendmentResult is the outcome of a committed amendment.
type AmendmentResult struct {
	Lease   *models.Lease         `json:"lease"`
	Record  *models.RentAmendment `json:"amendment"`
	Touched int64                 `json:"paymentsUpdated"`
}

// AmendmentService applies rent amendments to leases.
type AmendmentService interface {
	// Amend records the amendment, updates the lease terms, rescales explicit
	// tenant shares and rewrites every payment from the effective month on,
	// all in one transaction. Settled payments are rewritten too.
	// Returns ErrInvalidReference when the lease is missing.
	Amend(ctx context.Context, in Amendment) (*AmendmentResult, error)
}

type amendmentService struct {
	store repository.Store
	log   *logger.Logger
}

// NewAmendmentService creates a new instance of AmendmentService.
func NewAmendmentService(store repository.Store, log *logger.Logger) AmendmentService {
	return &amendmentService{
		store: store,
		log:   log.WithComponent("amendments"),
	}
}

func (s *amendmentService) Amend(ctx context.Context, in Amendment) (*AmendmentResult, error) {
	if in.NewRent.IsNegative() || in.NewCharges.IsNegative() {
		s.log.Warn("Rejected amendment with negative amounts", map[string]interface{}{
			"lease_id": in.LeaseID,
			"rent":     in.NewRent.String(),
			"charges":  in.NewCharges.String(),
		})
		return nil, fmt.Errorf("%w: rent and charges must not be negative", ErrInvalidInput)
	}
	if in.EffectiveDate.IsZero() {
		return nil, fmt.Errorf("%w: effective date is required", ErrInvalidInput)
	}

	newRent := models.RoundCents(in.NewRent)
	newCharges := models.RoundCents(in.NewCharges)
	from := models.PeriodOf(in.EffectiveDate)

	result := &AmendmentResult{}
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		lease, err := uow.Leases().FindByID(in.LeaseID)
		if err != nil {
			return err
		}
		if lease == nil {
			return fmt.Errorf("%w: lease %d does not exist", ErrInvalidReference, in.LeaseID)
		}

		record := models.RentAmendment{
			LeaseID:       lease.ID,
			OldRent:       lease.Rent,
			NewRent:       newRent,
			OldCharges:    lease.Charges,
			NewCharges:    newCharges,
			EffectiveDate: in.EffectiveDate,
			Notes:         in.Notes,
		}
		if err := uow.Amendments().Create(&record); err != nil {
			return err
		}

		oldTotal := lease.Total()
		if err := uow.Leases().UpdateTerms(lease.ID, newRent, newCharges); err != nil {
			return err
		}
		lease.Rent, lease.Charges = newRent, newCharges
		newTotal := lease.Total()

		tenants, err := uow.Tenants().ListByLease(lease.ID)
		if err != nil {
			return err
		}

		for _, tenant := range tenants {
			share := rescaleShare(tenant, oldTotal, newTotal, len(tenants))
			if tenant.HasExplicitShare() {
				if err := uow.Tenants().UpdateShare(tenant.ID, share); err != nil {
					return err
				}
			}

			n, err := uow.Payments().UpdateAmountFrom(tenant.ID, from, share)
			if err != nil {
				return err
			}
			result.Touched += n
		}

		result.Lease = lease
		result.Record = &record
		return nil
	})
	if err != nil {
		s.log.Error("Amendment rolled back", err, map[string]interface{}{"lease_id": in.LeaseID})
		return nil, fmt.Errorf("failed to amend lease %d: %w", in.LeaseID, err)
	}

	s.log.Info("Lease amended", map[string]interface{}{
		"lease_id":  in.LeaseID,
		"old_total": result.Record.OldTotal().StringFixed(2),
		"new_total": result.Record.NewTotal().StringFixed(2),
		"from":      from.String(),
		"touched":   result.Touched,
	})
	return result, nil
}

// rescaleShare returns the tenant's share of newTotal. Explicit shares keep
// their proportion of the old total; implicit shares and leases whose old
// total was zero fall back to an equal split across count tenants.
func rescaleShare(tenant models.Tenant, oldTotal, newTotal decimal.Decimal, count int) decimal.Decimal {
	if tenant.HasExplicitShare() && !oldTotal.IsZero() {
		return models.RoundCents(newTotal.Mul(*tenant.RentShare).Div(oldTotal))
	}
	return models.RoundCents(newTotal.Div(decimal.NewFromInt(int64(count))))
}
