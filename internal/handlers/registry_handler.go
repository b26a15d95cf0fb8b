package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/leasebook/internal/errors"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
	"github.com/stwalsh4118/leasebook/internal/services"
)

// RegistryHandler handles property and unit HTTP requests.
type RegistryHandler struct {
	service services.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler instance.
func NewRegistryHandler(service services.RegistryService) *RegistryHandler {
	return &RegistryHandler{service: service}
}

// CreatePropertyRequest is the body of POST /properties.
type CreatePropertyRequest struct {
	Surface         *float64     `json:"surface" binding:"omitempty,gt=0"`
	AcquisitionDate *models.Date `json:"acquisitionDate"`
	Notes           *string      `json:"notes"`
	Address         string       `json:"address" binding:"required,max=200"`
	City            string       `json:"city" binding:"required,max=100"`
	PostalCode      string       `json:"postalCode" binding:"required,max=10"`
}

// UpdatePropertyRequest is the body of PATCH /properties/:id.
type UpdatePropertyRequest struct {
	Address         *string      `json:"address" binding:"omitempty,min=1,max=200"`
	City            *string      `json:"city" binding:"omitempty,min=1,max=100"`
	PostalCode      *string      `json:"postalCode" binding:"omitempty,min=1,max=10"`
	Surface         *float64     `json:"surface" binding:"omitempty,gt=0"`
	AcquisitionDate *models.Date `json:"acquisitionDate"`
	Notes           *string      `json:"notes"`
}

// CreateUnitRequest is the body of POST /units.
type CreateUnitRequest struct {
	Rent       *decimal.Decimal `json:"rent" binding:"required"`
	Charges    *decimal.Decimal `json:"charges" binding:"required"`
	Surface    *float64         `json:"surface" binding:"omitempty,gt=0"`
	Label      string           `json:"label" binding:"required,max=50"`
	PropertyID uint             `json:"propertyId" binding:"required"`
	Whole      bool             `json:"whole"`
}

// UpdateUnitRequest is the body of PATCH /units/:id.
type UpdateUnitRequest struct {
	Label   *string          `json:"label" binding:"omitempty,min=1,max=50"`
	Rent    *decimal.Decimal `json:"rent"`
	Charges *decimal.Decimal `json:"charges"`
	Surface *float64         `json:"surface" binding:"omitempty,gt=0"`
}

// ListUnitsRequest holds the query parameters of GET /units.
type ListUnitsRequest struct {
	PropertyID *uint `form:"propertyId"`
	Available  bool  `form:"available"`
}

// PropertyListResponse wraps a property listing.
type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
	Count      int               `json:"count"`
}

// UnitListResponse wraps a unit listing.
type UnitListResponse struct {
	Units []models.Unit `json:"units"`
	Count int           `json:"count"`
}

// CreateProperty handles POST /api/v1/properties.
func (h *RegistryHandler) CreateProperty(c *gin.Context) {
	var req CreatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.service.CreateProperty(c.Request.Context(), services.NewProperty{
		Address:         req.Address,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Surface:         req.Surface,
		AcquisitionDate: req.AcquisitionDate,
		Notes:           req.Notes,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to create property")
		return
	}

	c.JSON(http.StatusCreated, property)
}

// GetProperty handles GET /api/v1/properties/:id.
func (h *RegistryHandler) GetProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	property, err := h.service.GetProperty(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to retrieve property")
		return
	}
	if property == nil {
		apierrors.NotFound(c, "Property not found")
		return
	}

	c.JSON(http.StatusOK, property)
}

// ListProperties handles GET /api/v1/properties.
func (h *RegistryHandler) ListProperties(c *gin.Context) {
	properties, err := h.service.ListProperties(c.Request.Context())
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list properties")
		return
	}

	c.JSON(http.StatusOK, PropertyListResponse{Properties: properties, Count: len(properties)})
}

// UpdateProperty handles PATCH /api/v1/properties/:id.
func (h *RegistryHandler) UpdateProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.service.UpdateProperty(c.Request.Context(), id, models.PropertyUpdate{
		Address:         req.Address,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Surface:         req.Surface,
		AcquisitionDate: req.AcquisitionDate,
		Notes:           req.Notes,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to update property")
		return
	}

	c.JSON(http.StatusOK, property)
}

// DeleteProperty handles DELETE /api/v1/properties/:id.
func (h *RegistryHandler) DeleteProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.service.DeleteProperty(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to delete property")
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Property not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateUnit handles POST /api/v1/units.
func (h *RegistryHandler) CreateUnit(c *gin.Context) {
	var req CreateUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	unit, err := h.service.CreateUnit(c.Request.Context(), services.NewUnit{
		PropertyID: req.PropertyID,
		Label:      req.Label,
		Rent:       *req.Rent,
		Charges:    *req.Charges,
		Surface:    req.Surface,
		Whole:      req.Whole,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to create unit")
		return
	}

	c.JSON(http.StatusCreated, unit)
}

// GetUnit handles GET /api/v1/units/:id.
func (h *RegistryHandler) GetUnit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	unit, err := h.service.GetUnit(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to retrieve unit")
		return
	}
	if unit == nil {
		apierrors.NotFound(c, "Unit not found")
		return
	}

	c.JSON(http.StatusOK, unit)
}

// ListUnits handles GET /api/v1/units?propertyId=&available=.
func (h *RegistryHandler) ListUnits(c *gin.Context) {
	var req ListUnitsRequest
	if !bindQuery(c, &req) {
		return
	}

	units, err := h.service.ListUnits(c.Request.Context(), repository.UnitFilter{
		PropertyID:    req.PropertyID,
		AvailableOnly: req.Available,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list units")
		return
	}

	c.JSON(http.StatusOK, UnitListResponse{Units: units, Count: len(units)})
}

// UpdateUnit handles PATCH /api/v1/units/:id.
func (h *RegistryHandler) UpdateUnit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	unit, err := h.service.UpdateUnit(c.Request.Context(), id, models.UnitUpdate{
		Label:   req.Label,
		Rent:    req.Rent,
		Charges: req.Charges,
		Surface: req.Surface,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to update unit")
		return
	}

	c.JSON(http.StatusOK, unit)
}

// DeleteUnit handles DELETE /api/v1/units/:id.
func (h *RegistryHandler) DeleteUnit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.service.DeleteUnit(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to delete unit")
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Unit not found")
		return
	}

	c.Status(http.StatusNoContent)
}
