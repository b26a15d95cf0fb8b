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

// NewInvoice holds the fields needed to record a property expense. A non-nil
// PaidOn records it as already settled.
type NewInvoice struct {
	PropertyID  uint
	Category    models.InvoiceCategory
	Supplier    *string
	Amount      decimal.Decimal
	InvoiceDate models.Date
	Description *string
	FilePath    *string
	PaidOn      *models.Date
}

// InvoiceService manages expenses billed to properties.
type InvoiceService interface {
	// Create returns ErrInvalidReference when the property is missing.
	Create(ctx context.Context, in NewInvoice) (*models.Invoice, error)
	Get(ctx context.Context, id uint) (*models.Invoice, error)
	List(ctx context.Context, filter repository.InvoiceFilter) ([]models.Invoice, error)
	Update(ctx context.Context, id uint, upd models.InvoiceUpdate) (*models.Invoice, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type invoiceService struct {
	store repository.Store
	log   *logger.Logger
}

// NewInvoiceService creates a new instance of InvoiceService.
func NewInvoiceService(store repository.Store, log *logger.Logger) InvoiceService {
	return &invoiceService{
		store: store,
		log:   log.WithComponent("invoices"),
	}
}

func validateInvoiceAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: invoice amount must be positive", ErrInvalidInput)
	}
	return nil
}

func (s *invoiceService) Create(ctx context.Context, in NewInvoice) (*models.Invoice, error) {
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice category %q", ErrInvalidInput, in.Category)
	}
	if err := validateInvoiceAmount(in.Amount); err != nil {
		s.log.Warn("Rejected invoice amount", map[string]interface{}{"amount": in.Amount.String()})
		return nil, err
	}
	if in.InvoiceDate.IsZero() {
		return nil, fmt.Errorf("%w: invoice date is required", ErrInvalidInput)
	}

	invoice := models.Invoice{
		PropertyID:  in.PropertyID,
		Category:    in.Category,
		Supplier:    trimmed(in.Supplier),
		Amount:      models.RoundCents(in.Amount),
		InvoiceDate: in.InvoiceDate,
		Description: in.Description,
		FilePath:    trimmed(in.FilePath),
		Status:      models.InvoiceUnpaid,
	}
	if in.PaidOn != nil {
		invoice.Status = models.InvoicePaid
		invoice.PaymentDate = in.PaidOn
	}

	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		property, err := uow.Properties().FindByID(in.PropertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return fmt.Errorf("%w: property %d does not exist", ErrInvalidReference, in.PropertyID)
		}
		return uow.Invoices().Create(&invoice)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.log.Info("Invoice recorded", map[string]interface{}{
		"invoice_id":  invoice.ID,
		"property_id": invoice.PropertyID,
		"category":    string(invoice.Category),
		"amount":      invoice.Amount.StringFixed(2),
	})
	return &invoice, nil
}

func (s *invoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		invoice, err = uow.Invoices().FindByID(id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, filter repository.InvoiceFilter) ([]models.Invoice, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice category %q", ErrInvalidInput, filter.Category)
	}

	var invoices []models.Invoice
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		invoices, err = uow.Invoices().List(filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (s *invoiceService) Update(ctx context.Context, id uint, upd models.InvoiceUpdate) (*models.Invoice, error) {
	if upd.Category != nil && !upd.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice category %q", ErrInvalidInput, *upd.Category)
	}
	if upd.Amount != nil {
		if err := validateInvoiceAmount(*upd.Amount); err != nil {
			return nil, err
		}
	}
	if upd.InvoiceDate != nil && upd.InvoiceDate.IsZero() {
		return nil, fmt.Errorf("%w: invoice date is required", ErrInvalidInput)
	}
	upd.Supplier = trimmed(upd.Supplier)
	upd.FilePath = trimmed(upd.FilePath)

	var invoice *models.Invoice
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		invoice, err = uow.Invoices().FindByID(id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return fmt.Errorf("%w: invoice %d", ErrNotFound, id)
		}
		upd.Apply(invoice)
		return uow.Invoices().Save(invoice)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.log.Info("Invoice updated", map[string]interface{}{
		"invoice_id": id,
		"status":     string(invoice.Status),
	})
	return invoice, nil
}

func (s *invoiceService) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		deleted, err = uow.Invoices().Delete(id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete invoice %d: %w", id, err)
	}
	if deleted {
		s.log.Info("Invoice deleted", map[string]interface{}{"invoice_id": id})
	}
	return deleted, nil
}

// trimmed returns nil for blank strings and the trimmed value otherwise.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
