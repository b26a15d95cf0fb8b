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

// InvoiceHandler handles property expense HTTP requests.
type InvoiceHandler struct {
	service services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler instance.
func NewInvoiceHandler(service services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// CreateInvoiceRequest is the body of POST /invoices.
type CreateInvoiceRequest struct {
	Amount      *decimal.Decimal       `json:"amount" binding:"required"`
	Supplier    *string                `json:"supplier" binding:"omitempty,max=150"`
	Description *string                `json:"description"`
	FilePath    *string                `json:"filePath" binding:"omitempty,max=500"`
	PaidOn      *models.Date           `json:"paidOn"`
	InvoiceDate models.Date            `json:"invoiceDate"`
	Category    models.InvoiceCategory `json:"category" binding:"required"`
	PropertyID  uint                   `json:"propertyId" binding:"required"`
}

// UpdateInvoiceRequest is the body of PATCH /invoices/:id. Reopen reverts a
// settled invoice to unpaid.
type UpdateInvoiceRequest struct {
	Category    *models.InvoiceCategory `json:"category"`
	Supplier    *string                 `json:"supplier" binding:"omitempty,max=150"`
	Amount      *decimal.Decimal        `json:"amount"`
	InvoiceDate *models.Date            `json:"invoiceDate"`
	Description *string                 `json:"description"`
	FilePath    *string                 `json:"filePath" binding:"omitempty,max=500"`
	PaidOn      *models.Date            `json:"paidOn"`
	Reopen      bool                    `json:"reopen"`
}

// ListInvoicesRequest holds the query parameters of GET /invoices.
type ListInvoicesRequest struct {
	PropertyID *uint                  `form:"propertyId"`
	Category   models.InvoiceCategory `form:"category"`
	Unpaid     bool                   `form:"unpaid"`
}

// InvoiceListResponse wraps an invoice listing with its amount totals.
type InvoiceListResponse struct {
	Invoices []models.Invoice `json:"invoices"`
	Total    decimal.Decimal  `json:"total"`
	Unpaid   decimal.Decimal  `json:"unpaid"`
	Count    int              `json:"count"`
}

func newInvoiceListResponse(invoices []models.Invoice) InvoiceListResponse {
	resp := InvoiceListResponse{Invoices: invoices, Count: len(invoices), Total: decimal.Zero, Unpaid: decimal.Zero}
	for _, inv := range invoices {
		resp.Total = resp.Total.Add(inv.Amount)
		if inv.Status == models.InvoiceUnpaid {
			resp.Unpaid = resp.Unpaid.Add(inv.Amount)
		}
	}
	return resp
}

// Create handles POST /api/v1/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.service.Create(c.Request.Context(), services.NewInvoice{
		PropertyID:  req.PropertyID,
		Category:    req.Category,
		Supplier:    req.Supplier,
		Amount:      *req.Amount,
		InvoiceDate: req.InvoiceDate,
		Description: req.Description,
		FilePath:    req.FilePath,
		PaidOn:      req.PaidOn,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// Get handles GET /api/v1/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to retrieve invoice")
		return
	}
	if invoice == nil {
		apierrors.NotFound(c, "Invoice not found")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// List handles GET /api/v1/invoices?propertyId=&category=&unpaid=.
func (h *InvoiceHandler) List(c *gin.Context) {
	var req ListInvoicesRequest
	if !bindQuery(c, &req) {
		return
	}

	h.list(c, repository.InvoiceFilter{
		PropertyID: req.PropertyID,
		Category:   req.Category,
		UnpaidOnly: req.Unpaid,
	})
}

// ListByProperty handles GET /api/v1/properties/:id/invoices.
func (h *InvoiceHandler) ListByProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	h.list(c, repository.InvoiceFilter{PropertyID: &id})
}

func (h *InvoiceHandler) list(c *gin.Context, filter repository.InvoiceFilter) {
	invoices, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, newInvoiceListResponse(invoices))
}

// Update handles PATCH /api/v1/invoices/:id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.service.Update(c.Request.Context(), id, models.InvoiceUpdate{
		Category:    req.Category,
		Supplier:    req.Supplier,
		Amount:      req.Amount,
		InvoiceDate: req.InvoiceDate,
		Description: req.Description,
		FilePath:    req.FilePath,
		PaidOn:      req.PaidOn,
		Reopen:      req.Reopen,
	})
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to update invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// Delete handles DELETE /api/v1/invoices/:id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to delete invoice")
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Invoice not found")
		return
	}

	c.Status(http.StatusNoContent)
}
