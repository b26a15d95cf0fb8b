package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/leasebook/internal/errors"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/services"
)

// PaymentHandler handles payment HTTP requests.
type PaymentHandler struct {
	service services.PaymentService
	now     func() time.Time
}

// NewPaymentHandler creates a new PaymentHandler instance.
func NewPaymentHandler(service services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service, now: time.Now}
}

// TransitionRequest selects a settlement transition by type.
type TransitionRequest struct {
	Date   *models.Date `json:"date"`
	Type   string       `json:"type" binding:"required,oneof=set_paid set_partial clear_payment set_status"`
	Status string       `json:"status" binding:"omitempty,oneof=unpaid paid partial"`
}

func (r TransitionRequest) toTransition() (models.Transition, error) {
	switch r.Type {
	case "set_paid":
		if r.Date == nil {
			return nil, errors.New("set_paid requires a date")
		}
		return models.SetPaid{Date: *r.Date}, nil
	case "set_partial":
		return models.SetPartial{Date: r.Date}, nil
	case "clear_payment":
		return models.ClearPayment{}, nil
	case "set_status":
		if r.Status == "" {
			return nil, errors.New("set_status requires a status")
		}
		return models.SetStatusExplicit{Status: models.PaymentStatus(r.Status)}, nil
	}
	return nil, fmt.Errorf("unknown transition %q", r.Type)
}

// UpdatePaymentRequest is the body of PATCH /payments/:id. Without a
// transition the status and payment date are left as they are.
type UpdatePaymentRequest struct {
	Method     *string            `json:"method" binding:"omitempty,max=50"`
	Notes      *string            `json:"notes"`
	Transition *TransitionRequest `json:"transition"`
	Receipt    bool               `json:"receipt"`
}

// ListPaymentsRequest holds the query parameters of GET /payments. Exactly one
// filter is applied: tenant, then period, then status.
type ListPaymentsRequest struct {
	TenantID *uint  `form:"tenantId"`
	Year     *int   `form:"year"`
	Month    *int   `form:"month" binding:"omitempty,min=1,max=12"`
	Status   string `form:"status" binding:"omitempty,oneof=unpaid paid partial"`
}

// OutstandingRequest holds the query parameters of GET /payments/outstanding.
// Both default to the current month.
type OutstandingRequest struct {
	Year  int `form:"year"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// PaymentListResponse wraps a payment listing.
type PaymentListResponse struct {
	Payments []models.Payment `json:"payments"`
	Count    int              `json:"count"`
}

// Get handles GET /api/v1/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to retrieve payment")
		return
	}
	if payment == nil {
		apierrors.NotFound(c, "Payment not found")
		return
	}

	c.JSON(http.StatusOK, payment)
}

// List handles GET /api/v1/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	var req ListPaymentsRequest
	if !bindQuery(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var payments []models.Payment
	var err error

	switch {
	case req.TenantID != nil:
		payments, err = h.service.ListByTenant(ctx, *req.TenantID)
	case req.Year != nil && req.Month != nil:
		payments, err = h.service.ListByPeriod(ctx, models.Period{Year: *req.Year, Month: *req.Month})
	case req.Status != "":
		payments, err = h.service.ListByStatus(ctx, models.PaymentStatus(req.Status))
	default:
		apierrors.BadRequest(c, "A filter is required: tenantId, year and month, or status", nil)
		return
	}
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, PaymentListResponse{Payments: payments, Count: len(payments)})
}

// Outstanding handles GET /api/v1/payments/outstanding.
func (h *PaymentHandler) Outstanding(c *gin.Context) {
	var req OutstandingRequest
	if !bindQuery(c, &req) {
		return
	}

	asOf := models.PeriodOf(models.DateOf(h.now().UTC()))
	if req.Year != 0 {
		asOf.Year = req.Year
	}
	if req.Month != 0 {
		asOf.Month = req.Month
	}

	payments, err := h.service.ListOutstanding(c.Request.Context(), asOf)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to list outstanding payments")
		return
	}

	c.JSON(http.StatusOK, PaymentListResponse{Payments: payments, Count: len(payments)})
}

// Update handles PATCH /api/v1/payments/:id.
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	upd := models.PaymentUpdate{
		Method:         req.Method,
		Notes:          req.Notes,
		RequestReceipt: req.Receipt,
	}
	if req.Transition != nil {
		transition, err := req.Transition.toTransition()
		if err != nil {
			apierrors.BadRequest(c, "Invalid transition", map[string]interface{}{"reason": err.Error()})
			return
		}
		upd.Transition = transition
	}

	payment, err := h.service.Update(c.Request.Context(), id, upd)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to update payment")
		return
	}

	c.JSON(http.StatusOK, payment)
}

// Delete handles DELETE /api/v1/payments/:id.
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to delete payment")
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Payment not found")
		return
	}

	c.Status(http.StatusNoContent)
}
