package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/leasebook/internal/errors"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/services"
)

// LeaseHandler handles lease, amendment and schedule HTTP requests.
type LeaseHandler struct {
	leases     services.LeaseService
	amendments services.AmendmentService
	schedules  services.ScheduleService
}

// NewLeaseHandler creates a new LeaseHandler instance.
func NewLeaseHandler(leases services.LeaseService, amendments services.AmendmentService, schedules services.ScheduleService) *LeaseHandler {
	return &LeaseHandler{
		leases:     leases,
		amendments: amendments,
		schedules:  schedules,
	}
}

// CreateLeaseRequest is the body of POST /leases.
type CreateLeaseRequest struct {
	EndDate   *models.Date     `json:"endDate"`
	Notes     *string          `json:"notes"`
	Rent      *decimal.Decimal `json:"rent" binding:"required"`
	Charges   *decimal.Decimal `json:"charges" binding:"required"`
	Tenant    *TenantRequest   `json:"tenant"`
	StartDate models.Date      `json:"startDate"`
	UnitID    uint             `json:"unitId" binding:"required"`
}

// UpdateLeaseRequest is the body of PATCH /leases/:id.
type UpdateLeaseRequest struct {
	EndDate      *models.Date `json:"endDate"`
	Notes        *string      `json:"notes"`
	ClearEndDate bool         `json:"clearEndDate"`
}

// CloseLeaseRequest is the body of POST /leases/:id/close.
type CloseLeaseRequest struct {
	EndDate models.Date `json:"endDate"`
}

// AmendRequest is the body of POST /leases/:id/amendments.
type AmendRequest struct {
	Rent          *decimal.Decimal `json:"rent" binding:"required"`
	Charges       *decimal.Decimal `json:"charges" binding:"required"`
	Notes         *string          `json:"notes"`
	EffectiveDate models.Date      `json:"effectiveDate"`
}

// ScheduleRequest is the body of POST /leases/:id/schedule.
type ScheduleRequest struct {
	TenantID   uint `json:"tenantId" binding:"required"`
	StartMonth int  `json:"startMonth" binding:"required,min=1,max=12"`
	Year       int  `json:"year" binding:"required,min=1900,max=9999"`
}

// ListLeasesRequest holds the query parameters of GET /leases.
type ListLeasesRequest struct {
	Active bool `form:"active"`
}

// LeaseListResponse wraps a lease listing.
type LeaseListResponse struct {
	Leases []models.Lease `json:"leases"`
	Count  int            `json:"count"`
}

// HistoryResponse wraps the amendment history of a lease.
type HistoryResponse struct {
	Amendments []models.RentAmendment `json:"amendments"`
	Count      int                    `json:"count"`
}

// ScheduleResponse lists the payments created by a schedule request.
type ScheduleResponse struct {
	Payments []models.Payment `json:"payments"`
	Created  int              `json:"created"`
}

// Create handles POST /api/v1/leases.
func (h *LeaseHandler) Create(c *gin.Context) {
	var req CreateLeaseRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.NewLease{
		UnitID:    req.UnitID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Rent:      *req.Rent,
		Charges:   *req.Charges,
		Notes:     req.Notes,
	}
	if req.Tenant != nil {
		tenant := req.Tenant.toNewTenant()
		tenant.LeaseID = nil
		in.Tenant = &tenant
	}

	lease, err := h.leases.Create(c.Request.Context(), in)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to create lease")
		return
	}

	c.JSON(http.StatusCreated, lease)
}

// Get handles GET /api/v1/leases/:id.
func (h *LeaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	lease, err := h.leases.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to retrieve lease")
		return
	}
	if lease == nil {
		apierrors.NotFound(c, "Lease not found")
		return
	}

	c.JSON(http.StatusOK, lease)
}

// List handles GET /api/v1/leases?active=.
func (h *LeaseHandler) List(c *gin.Context) {
	var req ListLeasesRequest
	if !bindQuery(c, &req) {
		return
	}

	leases, err := h.leases.List(c.Request.Context(), req.Active)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list leases")
		return
	}

	c.JSON(http.StatusOK, LeaseListResponse{Leases: leases, Count: len(leases)})
}

// ListByUnit handles GET /api/v1/units/:id/leases.
func (h *LeaseHandler) ListByUnit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	leases, err := h.leases.ListByUnit(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list leases")
		return
	}

	c.JSON(http.StatusOK, LeaseListResponse{Leases: leases, Count: len(leases)})
}

// Update handles PATCH /api/v1/leases/:id.
func (h *LeaseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateLeaseRequest
	if !bindJSON(c, &req) {
		return
	}

	lease, err := h.leases.Update(c.Request.Context(), id, models.LeaseUpdate{
		EndDate:      req.EndDate,
		ClearEndDate: req.ClearEndDate,
		Notes:        req.Notes,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to update lease")
		return
	}

	c.JSON(http.StatusOK, lease)
}

// Close handles POST /api/v1/leases/:id/close.
func (h *LeaseHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CloseLeaseRequest
	if !bindJSON(c, &req) {
		return
	}

	lease, err := h.leases.Close(c.Request.Context(), id, req.EndDate)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to close lease")
		return
	}

	c.JSON(http.StatusOK, lease)
}

// Delete handles DELETE /api/v1/leases/:id.
func (h *LeaseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.leases.Delete(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to delete lease")
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Lease not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// Amend handles POST /api/v1/leases/:id/amendments.
func (h *LeaseHandler) Amend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AmendRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.amendments.Amend(c.Request.Context(), services.Amendment{
		LeaseID:       id,
		NewRent:       *req.Rent,
		NewCharges:    *req.Charges,
		EffectiveDate: req.EffectiveDate,
		Notes:         req.Notes,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to amend lease")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// History handles GET /api/v1/leases/:id/amendments.
func (h *LeaseHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	history, err := h.leases.History(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to load amendment history")
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{Amendments: history, Count: len(history)})
}

// Schedule handles POST /api/v1/leases/:id/schedule.
func (h *LeaseHandler) Schedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	payments, err := h.schedules.GenerateInitialSchedule(c.Request.Context(), id, req.TenantID, req.StartMonth, req.Year)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to generate schedule")
		return
	}

	c.JSON(http.StatusCreated, ScheduleResponse{Payments: payments, Created: len(payments)})
}
