package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines data access for monthly payment obligations.
type PaymentRepository interface {
	Create(p *models.Payment) error

	// FindByID returns nil, nil when the payment does not exist.
	FindByID(id uint) (*models.Payment, error)

	ListByTenant(tenantID uint) ([]models.Payment, error)
	ListByPeriod(period models.Period) ([]models.Payment, error)
	ListByStatus(status models.PaymentStatus) ([]models.Payment, error)

	// ListOutstanding returns unpaid payments whose period is at or before asOf.
	ListOutstanding(asOf models.Period) ([]models.Payment, error)

	// MonthsWithPayments returns the months of year that already hold a payment for the tenant.
	MonthsWithPayments(tenantID uint, year int) (map[int]bool, error)

	// Save writes every column of p.
	Save(p *models.Payment) error

	// UpdateAmountFrom overwrites the amount of every payment of the tenant
	// whose period is at or after from, and returns the number of rows touched.
	UpdateAmountFrom(tenantID uint, from models.Period, amount decimal.Decimal) (int64, error)

	// MarkReceipt records a generated receipt on the payment.
	MarkReceipt(id uint, path string, date models.Date) error

	DeleteByTenants(tenantIDs []uint) (int64, error)
	Delete(id uint) (bool, error)

	CountByStatus(status models.PaymentStatus) (int64, error)

	// SumPaid returns the total amount of paid payments for a period.
	SumPaid(period models.Period) (decimal.Decimal, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func (r *paymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *paymentRepository) FindByID(id uint) (*models.Payment, error) {
	return first[models.Payment](r.db, id)
}

func (r *paymentRepository) ListByTenant(tenantID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("tenant_id = ?", tenantID).Order("year, month").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListByPeriod(period models.Period) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("year = ? AND month = ?", period.Year, period.Month).Order("tenant_id").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListByStatus(status models.PaymentStatus) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("status = ?", status).Order("year, month, tenant_id").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListOutstanding(asOf models.Period) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Where("status = ?", models.PaymentUnpaid).
		Where("year < ? OR (year = ? AND month <= ?)", asOf.Year, asOf.Year, asOf.Month).
		Order("year, month, tenant_id").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) MonthsWithPayments(tenantID uint, year int) (map[int]bool, error) {
	var months []int
	err := r.db.Model(&models.Payment{}).
		Where("tenant_id = ? AND year = ?", tenantID, year).
		Pluck("month", &months).Error
	if err != nil {
		return nil, err
	}

	existing := make(map[int]bool, len(months))
	for _, m := range months {
		existing[m] = true
	}
	return existing, nil
}

func (r *paymentRepository) Save(p *models.Payment) error {
	return r.db.Save(p).Error
}

func (r *paymentRepository) UpdateAmountFrom(tenantID uint, from models.Period, amount decimal.Decimal) (int64, error) {
	res := r.db.Model(&models.Payment{}).
		Where("tenant_id = ?", tenantID).
		Where("year > ? OR (year = ? AND month >= ?)", from.Year, from.Year, from.Month).
		Update("amount", amount)
	return res.RowsAffected, res.Error
}

func (r *paymentRepository) MarkReceipt(id uint, path string, date models.Date) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"receipt_generated": true,
		"receipt_path":      path,
		"receipt_date":      date,
	}).Error
}

func (r *paymentRepository) DeleteByTenants(tenantIDs []uint) (int64, error) {
	if len(tenantIDs) == 0 {
		return 0, nil
	}
	res := r.db.Where("tenant_id IN ?", tenantIDs).Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}

func (r *paymentRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Payment{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *paymentRepository) CountByStatus(status models.PaymentStatus) (int64, error) {
	var n int64
	err := r.db.Model(&models.Payment{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *paymentRepository) SumPaid(period models.Period) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.Model(&models.Payment{}).
		Where("status = ? AND year = ? AND month = ?", models.PaymentPaid, period.Year, period.Month).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

// AlertRepository defines data access for the unpaid-rent reminder log.
type AlertRepository interface {
	Create(a *models.PaymentAlert) error

	// SentSince reports whether the tenant already has an alert at or after since.
	SentSince(tenantID uint, since time.Time) (bool, error)

	ListByTenant(tenantID uint) ([]models.PaymentAlert, error)

	DeleteByTenants(tenantIDs []uint) (int64, error)
	DeleteByPayment(paymentID uint) (int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

func (r *alertRepository) Create(a *models.PaymentAlert) error {
	return r.db.Create(a).Error
}

func (r *alertRepository) SentSince(tenantID uint, since time.Time) (bool, error) {
	var n int64
	err := r.db.Model(&models.PaymentAlert{}).
		Where("tenant_id = ? AND sent_at >= ?", tenantID, since).
		Count(&n).Error
	return n > 0, err
}

func (r *alertRepository) ListByTenant(tenantID uint) ([]models.PaymentAlert, error) {
	var alerts []models.PaymentAlert
	err := r.db.Where("tenant_id = ?", tenantID).Order("sent_at, id").Find(&alerts).Error
	return alerts, err
}

func (r *alertRepository) DeleteByTenants(tenantIDs []uint) (int64, error) {
	if len(tenantIDs) == 0 {
		return 0, nil
	}
	res := r.db.Where("tenant_id IN ?", tenantIDs).Delete(&models.PaymentAlert{})
	return res.RowsAffected, res.Error
}

func (r *alertRepository) DeleteByPayment(paymentID uint) (int64, error) {
	res := r.db.Where("payment_id = ?", paymentID).Delete(&models.PaymentAlert{})
	return res.RowsAffected, res.Error
}
