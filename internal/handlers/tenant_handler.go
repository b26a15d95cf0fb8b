package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/leasebook/internal/errors"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/services"
)

// TenantHandler handles tenant HTTP requests.
type TenantHandler struct {
	service services.TenantService
}

// NewTenantHandler creates a new TenantHandler instance.
func NewTenantHandler(service services.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

// TenantRequest is the body of POST /tenants and the optional tenant of a new lease.
type TenantRequest struct {
	LeaseID   *uint            `json:"leaseId"`
	Email     *string          `json:"email" binding:"omitempty,email,max=150"`
	Phone     *string          `json:"phone" binding:"omitempty,max=20"`
	RentShare *decimal.Decimal `json:"rentShare"`
	Deposit   *decimal.Decimal `json:"deposit"`
	Notes     *string          `json:"notes"`
	EntryDate models.Date      `json:"entryDate"`
	Name      string           `json:"name" binding:"required,max=200"`
}

func (r TenantRequest) toNewTenant() services.NewTenant {
	in := services.NewTenant{
		LeaseID:   r.LeaseID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		EntryDate: r.EntryDate,
		RentShare: r.RentShare,
		Notes:     r.Notes,
	}
	if r.Deposit != nil {
		in.Deposit = *r.Deposit
	}
	return in
}

// UpdateTenantRequest is the body of PATCH /tenants/:id. A null rentShare
// together with clearRentShare reverts the tenant to the equal split.
type UpdateTenantRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email          *string          `json:"email" binding:"omitempty,email,max=150"`
	Phone          *string          `json:"phone" binding:"omitempty,max=20"`
	ExitDate       *models.Date     `json:"exitDate"`
	Deposit        *decimal.Decimal `json:"deposit"`
	Active         *bool            `json:"active"`
	Notes          *string          `json:"notes"`
	RentShare      *decimal.Decimal `json:"rentShare"`
	ClearRentShare bool             `json:"clearRentShare"`
}

func (r UpdateTenantRequest) toUpdate() models.TenantUpdate {
	upd := models.TenantUpdate{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		ExitDate: r.ExitDate,
		Deposit:  r.Deposit,
		Active:   r.Active,
		Notes:    r.Notes,
	}
	switch {
	case r.ClearRentShare:
		upd.Share = models.ShareChange{Op: models.ShareClear}
	case r.RentShare != nil:
		upd.Share = models.ShareChange{Op: models.ShareSet, Value: *r.RentShare}
	}
	return upd
}

// ListTenantsRequest holds the query parameters of GET /tenants.
type ListTenantsRequest struct {
	Active bool `form:"active"`
}

// TenantListResponse wraps a tenant listing.
type TenantListResponse struct {
	Tenants []models.Tenant `json:"tenants"`
	Count   int             `json:"count"`
}

// Create handles POST /api/v1/tenants.
func (h *TenantHandler) Create(c *gin.Context) {
	var req TenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.service.Add(c.Request.Context(), req.toNewTenant())
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to create tenant")
		return
	}

	c.JSON(http.StatusCreated, tenant)
}

// Get handles GET /api/v1/tenants/:id.
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to retrieve tenant")
		return
	}
	if tenant == nil {
		apierrors.NotFound(c, "Tenant not found")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// List handles GET /api/v1/tenants?active=.
func (h *TenantHandler) List(c *gin.Context) {
	var req ListTenantsRequest
	if !bindQuery(c, &req) {
		return
	}

	tenants, err := h.service.List(c.Request.Context(), req.Active)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list tenants")
		return
	}

	c.JSON(http.StatusOK, TenantListResponse{Tenants: tenants, Count: len(tenants)})
}

// ListByLease handles GET /api/v1/leases/:id/tenants.
func (h *TenantHandler) ListByLease(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tenants, err := h.service.ListByLease(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list tenants")
		return
	}

	c.JSON(http.StatusOK, TenantListResponse{Tenants: tenants, Count: len(tenants)})
}

// AlertListResponse wraps the reminders sent to a tenant.
type AlertListResponse struct {
	Alerts []models.PaymentAlert `json:"alerts"`
	Count  int                   `json:"count"`
}

// Alerts handles GET /api/v1/tenants/:id/alerts.
func (h *TenantHandler) Alerts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	alerts, err := h.service.Alerts(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list alerts")
		return
	}

	c.JSON(http.StatusOK, AlertListResponse{Alerts: alerts, Count: len(alerts)})
}

// Update handles PATCH /api/v1/tenants/:id.
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.service.Update(c.Request.Context(), id, req.toUpdate())
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to update tenant")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// Delete handles DELETE /api/v1/tenants/:id.
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.service.Remove(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to delete tenant")
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Tenant not found")
		return
	}

	c.Status(http.StatusNoContent)
}
