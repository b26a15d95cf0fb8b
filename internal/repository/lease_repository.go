package repository

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/models"
	"gorm.io/gorm"
)

// LeaseRepository defines data access for leases.
type LeaseRepository interface {
	Create(l *models.Lease) error

	// FindByID returns nil, nil when the lease does not exist.
	FindByID(id uint) (*models.Lease, error)

	// FindActiveByUnit returns the active lease on a unit, or nil, nil.
	FindActiveByUnit(unitID uint) (*models.Lease, error)

	List(activeOnly bool) ([]models.Lease, error)
	ListByUnit(unitID uint) ([]models.Lease, error)

	// Save writes every column of l.
	Save(l *models.Lease) error

	// UpdateTerms overwrites the rent and charges of a lease.
	UpdateTerms(id uint, rent, charges decimal.Decimal) error

	Delete(id uint) (bool, error)
}

type leaseRepository struct {
	db *gorm.DB
}

func (r *leaseRepository) Create(l *models.Lease) error {
	return r.db.Create(l).Error
}

func (r *leaseRepository) FindByID(id uint) (*models.Lease, error) {
	return first[models.Lease](r.db, id)
}

func (r *leaseRepository) FindActiveByUnit(unitID uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.Where("unit_id = ? AND active = ?", unitID, true).Order("id").First(&lease).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) List(activeOnly bool) ([]models.Lease, error) {
	q := r.db.Order("id")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var leases []models.Lease
	err := q.Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) ListByUnit(unitID uint) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.Where("unit_id = ?", unitID).Order("start_date DESC, id DESC").Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) Save(l *models.Lease) error {
	return r.db.Save(l).Error
}

func (r *leaseRepository) UpdateTerms(id uint, rent, charges decimal.Decimal) error {
	return r.db.Model(&models.Lease{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rent":    rent,
		"charges": charges,
	}).Error
}

func (r *leaseRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Lease{}, id)
	return res.RowsAffected > 0, res.Error
}

// AmendmentRepository defines data access for the append-only amendment log.
type AmendmentRepository interface {
	Create(a *models.RentAmendment) error

	// ListByLease returns the history of a lease, newest effective date first.
	ListByLease(leaseID uint) ([]models.RentAmendment, error)

	// DeleteByLease is only used by the lease delete cascade.
	DeleteByLease(leaseID uint) (int64, error)
}

type amendmentRepository struct {
	db *gorm.DB
}

func (r *amendmentRepository) Create(a *models.RentAmendment) error {
	return r.db.Create(a).Error
}

func (r *amendmentRepository) ListByLease(leaseID uint) ([]models.RentAmendment, error) {
	var history []models.RentAmendment
	err := r.db.Where("lease_id = ?", leaseID).Order("effective_date DESC, id DESC").Find(&history).Error
	return history, err
}

func (r *amendmentRepository) DeleteByLease(leaseID uint) (int64, error) {
	res := r.db.Where("lease_id = ?", leaseID).Delete(&models.RentAmendment{})
	return res.RowsAffected, res.Error
}
