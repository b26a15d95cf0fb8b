package repository

import (
	"github.com/stwalsh4118/leasebook/internal/models"
	"gorm.io/gorm"
)

// PropertyRepository defines data access for properties.
type PropertyRepository interface {
	Create(p *models.Property) error

	// FindByID returns nil, nil when the property does not exist.
	FindByID(id uint) (*models.Property, error)

	List() ([]models.Property, error)

	// Save writes every column of p.
	Save(p *models.Property) error

	// Delete removes the property. It reports false when no row matched and
	// fails with a constraint error while units or invoices still reference it.
	Delete(id uint) (bool, error)

	Count() (int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func (r *propertyRepository) Create(p *models.Property) error {
	return r.db.Create(p).Error
}

func (r *propertyRepository) FindByID(id uint) (*models.Property, error) {
	return first[models.Property](r.db, id)
}

func (r *propertyRepository) List() ([]models.Property, error) {
	var properties []models.Property
	err := r.db.Order("id").Find(&properties).Error
	return properties, err
}

func (r *propertyRepository) Save(p *models.Property) error {
	return r.db.Save(p).Error
}

func (r *propertyRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Property{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *propertyRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Property{}).Count(&n).Error
	return n, err
}

// UnitFilter narrows a unit listing. Zero values match everything.
type UnitFilter struct {
	PropertyID    *uint
	AvailableOnly bool
}

// UnitRepository defines data access for units.
type UnitRepository interface {
	Create(u *models.Unit) error

	// FindByID returns nil, nil when the unit does not exist.
	FindByID(id uint) (*models.Unit, error)

	List(filter UnitFilter) ([]models.Unit, error)

	// Save writes every column of u.
	Save(u *models.Unit) error

	SetAvailable(id uint, available bool) error

	Delete(id uint) (bool, error)

	// Count returns the number of units, or of available units only.
	Count(availableOnly bool) (int64, error)

	// ListOccupied returns the units that are not available.
	ListOccupied() ([]models.Unit, error)
}

type unitRepository struct {
	db *gorm.DB
}

func (r *unitRepository) Create(u *models.Unit) error {
	return r.db.Create(u).Error
}

func (r *unitRepository) FindByID(id uint) (*models.Unit, error) {
	return first[models.Unit](r.db, id)
}

func (r *unitRepository) List(filter UnitFilter) ([]models.Unit, error) {
	q := r.db.Order("id")
	if filter.PropertyID != nil {
		q = q.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.AvailableOnly {
		q = q.Where("available = ?", true)
	}

	var units []models.Unit
	err := q.Find(&units).Error
	return units, err
}

func (r *unitRepository) Save(u *models.Unit) error {
	return r.db.Save(u).Error
}

func (r *unitRepository) SetAvailable(id uint, available bool) error {
	return r.db.Model(&models.Unit{}).Where("id = ?", id).Update("available", available).Error
}

func (r *unitRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Unit{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *unitRepository) Count(availableOnly bool) (int64, error) {
	q := r.db.Model(&models.Unit{})
	if availableOnly {
		q = q.Where("available = ?", true)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *unitRepository) ListOccupied() ([]models.Unit, error) {
	var units []models.Unit
	err := r.db.Where("available = ?", false).Order("id").Find(&units).Error
	return units, err
}
