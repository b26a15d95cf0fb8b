package services

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// ReceiptData is everything a document generator needs to render a receipt.
type ReceiptData struct {
	Tenant   models.Tenant
	Unit     models.Unit
	Property models.Property
	Payment  models.Payment
	Period   models.Period
}

// DocumentGenerator renders a receipt and returns the artifact path.
type DocumentGenerator interface {
	Generate(ctx context.Context, data ReceiptData) (string, error)
}

// ArchiveMeta describes an artifact handed to the archiver.
type ArchiveMeta struct {
	TenantName string
	Year       int
	Month      int
}

// Archiver moves an artifact to its final location and returns that path.
type Archiver interface {
	Archive(ctx context.Context, path string, meta ArchiveMeta) (string, error)
}

// PaymentService reads and settles monthly payments.
type PaymentService interface {
	Get(ctx context.Context, id uint) (*models.Payment, error)
	ListByTenant(ctx context.Context, tenantID uint) ([]models.Payment, error)
	ListByPeriod(ctx context.Context, period models.Period) ([]models.Payment, error)
	ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error)

	// ListOutstanding returns unpaid payments at or before asOf.
	ListOutstanding(ctx context.Context, asOf models.Period) ([]models.Payment, error)

	// Update applies upd. When the call settles the payment and a receipt is
	// requested, the receipt is generated after the update commits.
	// Returns ErrNotFound when the payment is absent.
	Update(ctx context.Context, id uint, upd models.PaymentUpdate) (*models.Payment, error)

	Delete(ctx context.Context, id uint) (bool, error)
}

type paymentService struct {
	store    repository.Store
	docs     DocumentGenerator
	archiver Archiver
	log      *logger.Logger
	now      func() time.Time
}

// NewPaymentService creates a new instance of PaymentService. docs and
// archiver may be nil, in which case receipts are skipped.
func NewPaymentService(store repository.Store, docs DocumentGenerator, archiver Archiver, log *logger.Logger) PaymentService {
	return &paymentService{
		store:    store,
		docs:     docs,
		archiver: archiver,
		log:      log.WithComponent("payments"),
		now:      time.Now,
	}
}

func (s *paymentService) Get(ctx context.Context, id uint) (*models.Payment, error) {
	var payment *models.Payment
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		payment, err = uow.Payments().FindByID(id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) ListByTenant(ctx context.Context, tenantID uint) ([]models.Payment, error) {
	return s.list(ctx, "tenant", func(r repository.PaymentRepository) ([]models.Payment, error) {
		return r.ListByTenant(tenantID)
	})
}

func (s *paymentService) ListByPeriod(ctx context.Context, period models.Period) ([]models.Payment, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidInput, period.Month)
	}
	return s.list(ctx, "period", func(r repository.PaymentRepository) ([]models.Payment, error) {
		return r.ListByPeriod(period)
	})
}

func (s *paymentService) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, status)
	}
	return s.list(ctx, "status", func(r repository.PaymentRepository) ([]models.Payment, error) {
		return r.ListByStatus(status)
	})
}

func (s *paymentService) ListOutstanding(ctx context.Context, asOf models.Period) ([]models.Payment, error) {
	if !asOf.Valid() {
		return nil, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidInput, asOf.Month)
	}
	return s.list(ctx, "outstanding", func(r repository.PaymentRepository) ([]models.Payment, error) {
		return r.ListOutstanding(asOf)
	})
}

func (s *paymentService) list(ctx context.Context, by string, query func(repository.PaymentRepository) ([]models.Payment, error)) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		payments, err = query(uow.Payments())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by %s: %w", by, err)
	}
	return payments, nil
}

func (s *paymentService) Update(ctx context.Context, id uint, upd models.PaymentUpdate) (*models.Payment, error) {
	var payment *models.Payment
	var settled bool
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		payment, err = uow.Payments().FindByID(id)
		if err != nil {
			return err
		}
		if payment == nil {
			return fmt.Errorf("%w: payment %d", ErrNotFound, id)
		}

		settled, err = upd.Apply(payment)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return uow.Payments().Save(payment)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	fields := map[string]interface{}{
		"payment_id": id,
		"status":     payment.Status,
		"period":     payment.Period().String(),
	}
	if upd.Transition != nil {
		fields["transition"] = upd.Transition.Name()
	}
	s.log.Info("Payment updated", fields)

	if settled && upd.RequestReceipt {
		s.issueReceipt(ctx, payment)
	}
	return payment, nil
}

// issueReceipt renders and archives the receipt of a settled payment, then
// records it. Failures are logged; the committed status change stands.
func (s *paymentService) issueReceipt(ctx context.Context, payment *models.Payment) {
	fields := map[string]interface{}{"payment_id": payment.ID}
	if s.docs == nil || s.archiver == nil {
		s.log.Warn("Receipt requested but no document generator or archiver is configured", fields)
		return
	}

	data := ReceiptData{Payment: *payment, Period: payment.Period()}
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		tenant, err := uow.Tenants().FindByID(payment.TenantID)
		if err != nil {
			return err
		}
		unit, err := uow.Units().FindByID(payment.UnitID)
		if err != nil {
			return err
		}
		if tenant == nil || unit == nil {
			return fmt.Errorf("%w: payment %d references a missing tenant or unit", ErrInvalidReference, payment.ID)
		}
		property, err := uow.Properties().FindByID(unit.PropertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return fmt.Errorf("%w: unit %d references a missing property", ErrInvalidReference, unit.ID)
		}
		data.Tenant, data.Unit, data.Property = *tenant, *unit, *property
		return nil
	})
	if err != nil {
		s.log.Error("Failed to load receipt data", err, fields)
		return
	}

	artifact, err := s.docs.Generate(ctx, data)
	if err != nil {
		s.log.Error("Failed to generate receipt", err, fields)
		return
	}
	stored, err := s.archiver.Archive(ctx, artifact, ArchiveMeta{
		TenantName: data.Tenant.Name,
		Year:       payment.Year,
		Month:      payment.Month,
	})
	if err != nil {
		s.log.Error("Failed to archive receipt", err, fields)
		return
	}

	issued := models.DateOf(s.now())
	err = s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		return uow.Payments().MarkReceipt(payment.ID, stored, issued)
	})
	if err != nil {
		s.log.Error("Failed to record receipt", err, fields)
		return
	}

	payment.ReceiptGenerated = true
	payment.ReceiptPath = &stored
	payment.ReceiptDate = issued.Ptr()
	fields["path"] = stored
	s.log.Info("Receipt issued", fields)
}

func (s *paymentService) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Alerts().DeleteByPayment(id); err != nil {
			return err
		}
		var err error
		deleted, err = uow.Payments().Delete(id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete payment %d: %w", id, err)
	}
	if deleted {
		s.log.Info("Payment deleted", map[string]interface{}{"payment_id": id})
	}
	return deleted, nil
}
