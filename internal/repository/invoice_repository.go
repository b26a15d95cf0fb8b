package repository

import (
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/models"
	"gorm.io/gorm"
)

// InvoiceFilter narrows an invoice listing. Zero values match everything.
type InvoiceFilter struct {
	PropertyID *uint
	Category   models.InvoiceCategory
	UnpaidOnly bool
}

// InvoiceRepository defines data access for property expenses.
type InvoiceRepository interface {
	Create(inv *models.Invoice) error

	// FindByID returns nil, nil when the invoice does not exist.
	FindByID(id uint) (*models.Invoice, error)

	// List returns matching invoices, newest invoice date first.
	List(filter InvoiceFilter) ([]models.Invoice, error)

	Save(inv *models.Invoice) error
	Delete(id uint) (bool, error)

	CountUnpaid() (int64, error)

	// SumUnpaid totals the unpaid amounts.
	SumUnpaid() (decimal.Decimal, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func (r *invoiceRepository) Create(inv *models.Invoice) error {
	return r.db.Create(inv).Error
}

func (r *invoiceRepository) FindByID(id uint) (*models.Invoice, error) {
	return first[models.Invoice](r.db, id)
}

func (r *invoiceRepository) List(filter InvoiceFilter) ([]models.Invoice, error) {
	q := r.db.Order("invoice_date DESC, id DESC")
	if filter.PropertyID != nil {
		q = q.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.UnpaidOnly {
		q = q.Where("status = ?", models.InvoiceUnpaid)
	}

	var invoices []models.Invoice
	err := q.Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Save(inv *models.Invoice) error {
	return r.db.Save(inv).Error
}

func (r *invoiceRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Invoice{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *invoiceRepository) CountUnpaid() (int64, error) {
	var n int64
	err := r.db.Model(&models.Invoice{}).Where("status = ?", models.InvoiceUnpaid).Count(&n).Error
	return n, err
}

func (r *invoiceRepository) SumUnpaid() (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.Model(&models.Invoice{}).Where("status = ?", models.InvoiceUnpaid).Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
