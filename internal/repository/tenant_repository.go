package repository

import (
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/models"
	"gorm.io/gorm"
)

// TenantRepository defines data access for tenants.
type TenantRepository interface {
	Create(t *models.Tenant) error

	// FindByID returns nil, nil when the tenant does not exist.
	FindByID(id uint) (*models.Tenant, error)

	List(activeOnly bool) ([]models.Tenant, error)

	// ListByLease returns every tenant bound to the lease, active or not.
	ListByLease(leaseID uint) ([]models.Tenant, error)

	// IDsByLease returns the ids of every tenant bound to the lease.
	IDsByLease(leaseID uint) ([]uint, error)

	// Save writes every column of t.
	Save(t *models.Tenant) error

	UpdateShare(id uint, share decimal.Decimal) error

	// CloseByLease deactivates the tenants of a lease and stamps their exit date.
	CloseByLease(leaseID uint, exit models.Date) (int64, error)

	// DetachFromLease clears the lease reference of its tenants and deactivates them.
	DetachFromLease(leaseID uint) (int64, error)

	Delete(id uint) (bool, error)

	CountActive() (int64, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func (r *tenantRepository) Create(t *models.Tenant) error {
	return r.db.Create(t).Error
}

func (r *tenantRepository) FindByID(id uint) (*models.Tenant, error) {
	return first[models.Tenant](r.db, id)
}

func (r *tenantRepository) List(activeOnly bool) ([]models.Tenant, error) {
	q := r.db.Order("id")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var tenants []models.Tenant
	err := q.Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) ListByLease(leaseID uint) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Where("lease_id = ?", leaseID).Order("id").Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) IDsByLease(leaseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Tenant{}).Where("lease_id = ?", leaseID).Pluck("id", &ids).Error
	return ids, err
}

func (r *tenantRepository) Save(t *models.Tenant) error {
	return r.db.Save(t).Error
}

func (r *tenantRepository) UpdateShare(id uint, share decimal.Decimal) error {
	return r.db.Model(&models.Tenant{}).Where("id = ?", id).Update("rent_share", share).Error
}

func (r *tenantRepository) CloseByLease(leaseID uint, exit models.Date) (int64, error) {
	res := r.db.Model(&models.Tenant{}).Where("lease_id = ?", leaseID).Updates(map[string]interface{}{
		"active":    false,
		"exit_date": exit,
	})
	return res.RowsAffected, res.Error
}

func (r *tenantRepository) DetachFromLease(leaseID uint) (int64, error) {
	res := r.db.Model(&models.Tenant{}).Where("lease_id = ?", leaseID).Updates(map[string]interface{}{
		"lease_id": nil,
		"active":   false,
	})
	return res.RowsAffected, res.Error
}

func (r *tenantRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Tenant{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *tenantRepository) CountActive() (int64, error) {
	var n int64
	err := r.db.Model(&models.Tenant{}).Where("active = ?", true).Count(&n).Error
	return n, err
}
