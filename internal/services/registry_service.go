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

// NewProperty holds the fields needed to register a property.
type NewProperty struct {
	Address         string
	City            string
	PostalCode      string
	Surface         *float64
	AcquisitionDate *models.Date
	Notes           *string
}

// NewUnit holds the fields needed to register a unit.
type NewUnit struct {
	PropertyID uint
	Label      string
	Rent       decimal.Decimal
	Charges    decimal.Decimal
	Surface    *float64
	Whole      bool
}

// RegistryService manages properties and their rentable units.
type RegistryService interface {
	CreateProperty(ctx context.Context, in NewProperty) (*models.Property, error)
	GetProperty(ctx context.Context, id uint) (*models.Property, error)
	ListProperties(ctx context.Context) ([]models.Property, error)
	UpdateProperty(ctx context.Context, id uint, upd models.PropertyUpdate) (*models.Property, error)

	// DeleteProperty reports false when the property is absent and fails
	// with ErrConstraintViolation while units or invoices still reference it.
	DeleteProperty(ctx context.Context, id uint) (bool, error)

	// CreateUnit returns ErrInvalidReference when the property is missing.
	// New units are available.
	CreateUnit(ctx context.Context, in NewUnit) (*models.Unit, error)
	GetUnit(ctx context.Context, id uint) (*models.Unit, error)
	ListUnits(ctx context.Context, filter repository.UnitFilter) ([]models.Unit, error)
	UpdateUnit(ctx context.Context, id uint, upd models.UnitUpdate) (*models.Unit, error)
	DeleteUnit(ctx context.Context, id uint) (bool, error)
}

type registryService struct {
	store repository.Store
	log   *logger.Logger
}

// NewRegistryService creates a new instance of RegistryService.
func NewRegistryService(store repository.Store, log *logger.Logger) RegistryService {
	return &registryService{
		store: store,
		log:   log.WithComponent("registry"),
	}
}

func (s *registryService) CreateProperty(ctx context.Context, in NewProperty) (*models.Property, error) {
	property := models.Property{
		Address:         strings.TrimSpace(in.Address),
		City:            strings.TrimSpace(in.City),
		PostalCode:      strings.TrimSpace(in.PostalCode),
		Surface:         in.Surface,
		AcquisitionDate: in.AcquisitionDate,
		Notes:           in.Notes,
	}
	if property.Address == "" || property.City == "" || property.PostalCode == "" {
		s.log.Warn("Rejected property without address", nil)
		return nil, fmt.Errorf("%w: address, city and postal code are required", ErrInvalidInput)
	}

	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		return uow.Properties().Create(&property)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.log.Info("Property created", map[string]interface{}{
		"property_id": property.ID,
		"city":        property.City,
	})
	return &property, nil
}

func (s *registryService) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	var property *models.Property
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		property, err = uow.Properties().FindByID(id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	return property, nil
}

func (s *registryService) ListProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		properties, err = uow.Properties().List()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *registryService) UpdateProperty(ctx context.Context, id uint, upd models.PropertyUpdate) (*models.Property, error) {
	for _, field := range []*string{upd.Address, upd.City, upd.PostalCode} {
		if field != nil && strings.TrimSpace(*field) == "" {
			return nil, fmt.Errorf("%w: address, city and postal code are required", ErrInvalidInput)
		}
	}
	if upd.Surface != nil && *upd.Surface < 0 {
		return nil, fmt.Errorf("%w: surface must not be negative", ErrInvalidInput)
	}

	var property *models.Property
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		property, err = uow.Properties().FindByID(id)
		if err != nil {
			return err
		}
		if property == nil {
			return fmt.Errorf("%w: property %d", ErrNotFound, id)
		}
		upd.Apply(property)
		return uow.Properties().Save(property)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	s.log.Info("Property updated", map[string]interface{}{"property_id": id})
	return property, nil
}

func (s *registryService) DeleteProperty(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		deleted, err = uow.Properties().Delete(id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete property %d: %w", id, err)
	}
	if deleted {
		s.log.Info("Property deleted", map[string]interface{}{"property_id": id})
	}
	return deleted, nil
}

func (s *registryService) CreateUnit(ctx context.Context, in NewUnit) (*models.Unit, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, fmt.Errorf("%w: unit label is required", ErrInvalidInput)
	}
	if in.Rent.IsNegative() || in.Charges.IsNegative() {
		s.log.Warn("Rejected unit with negative amounts", map[string]interface{}{
			"rent":    in.Rent.String(),
			"charges": in.Charges.String(),
		})
		return nil, fmt.Errorf("%w: rent and charges must not be negative", ErrInvalidInput)
	}

	unit := models.Unit{
		PropertyID: in.PropertyID,
		Label:      label,
		Rent:       models.RoundCents(in.Rent),
		Charges:    models.RoundCents(in.Charges),
		Surface:    in.Surface,
		Whole:      in.Whole,
		Available:  true,
	}

	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		property, err := uow.Properties().FindByID(in.PropertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return fmt.Errorf("%w: property %d does not exist", ErrInvalidReference, in.PropertyID)
		}
		return uow.Units().Create(&unit)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	s.log.Info("Unit created", map[string]interface{}{
		"unit_id":     unit.ID,
		"property_id": unit.PropertyID,
		"total":       unit.Total().StringFixed(2),
	})
	return &unit, nil
}

func (s *registryService) GetUnit(ctx context.Context, id uint) (*models.Unit, error) {
	var unit *models.Unit
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		unit, err = uow.Units().FindByID(id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load unit: %w", err)
	}
	return unit, nil
}

func (s *registryService) ListUnits(ctx context.Context, filter repository.UnitFilter) ([]models.Unit, error) {
	var units []models.Unit
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		units, err = uow.Units().List(filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

func (s *registryService) UpdateUnit(ctx context.Context, id uint, upd models.UnitUpdate) (*models.Unit, error) {
	if (upd.Rent != nil && upd.Rent.IsNegative()) || (upd.Charges != nil && upd.Charges.IsNegative()) {
		return nil, fmt.Errorf("%w: rent and charges must not be negative", ErrInvalidInput)
	}
	if upd.Label != nil && strings.TrimSpace(*upd.Label) == "" {
		return nil, fmt.Errorf("%w: unit label is required", ErrInvalidInput)
	}

	var unit *models.Unit
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		unit, err = uow.Units().FindByID(id)
		if err != nil {
			return err
		}
		if unit == nil {
			return fmt.Errorf("%w: unit %d", ErrNotFound, id)
		}
		upd.Apply(unit)
		return uow.Units().Save(unit)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}

	s.log.Info("Unit updated", map[string]interface{}{"unit_id": id})
	return unit, nil
}

func (s *registryService) DeleteUnit(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
		var err error
		deleted, err = uow.Units().Delete(id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete unit %d: %w", id, err)
	}
	if deleted {
		s.log.Info("Unit deleted", map[string]interface{}{"unit_id": id})
	}
	return deleted, nil
}
