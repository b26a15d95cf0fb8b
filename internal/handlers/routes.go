package handlers

import "github.com/gin-gonic/gin"

// Handlers groups every API handler for route registration.
type Handlers struct {
	Registry *RegistryHandler
	Leases   *LeaseHandler
	Tenants  *TenantHandler
	Payments *PaymentHandler
	Invoices *InvoiceHandler
	Stats    *StatsHandler
}

// RegisterRoutes mounts the ledger API on v1.
func RegisterRoutes(v1 *gin.RouterGroup, h Handlers) {
	properties := v1.Group("/properties")
	{
		properties.POST("", h.Registry.CreateProperty)
		properties.GET("", h.Registry.ListProperties)
		properties.GET("/:id", h.Registry.GetProperty)
		properties.PATCH("/:id", h.Registry.UpdateProperty)
		properties.DELETE("/:id", h.Registry.DeleteProperty)
		properties.GET("/:id/invoices", h.Invoices.ListByProperty)
	}

	units := v1.Group("/units")
	{
		units.POST("", h.Registry.CreateUnit)
		units.GET("", h.Registry.ListUnits)
		units.GET("/:id", h.Registry.GetUnit)
		units.PATCH("/:id", h.Registry.UpdateUnit)
		units.DELETE("/:id", h.Registry.DeleteUnit)
		units.GET("/:id/leases", h.Leases.ListByUnit)
	}

	leases := v1.Group("/leases")
	{
		leases.POST("", h.Leases.Create)
		leases.GET("", h.Leases.List)
		leases.GET("/:id", h.Leases.Get)
		leases.PATCH("/:id", h.Leases.Update)
		leases.DELETE("/:id", h.Leases.Delete)
		leases.POST("/:id/close", h.Leases.Close)
		leases.POST("/:id/amendments", h.Leases.Amend)
		leases.GET("/:id/amendments", h.Leases.History)
		leases.POST("/:id/schedule", h.Leases.Schedule)
		leases.GET("/:id/tenants", h.Tenants.ListByLease)
	}

	tenants := v1.Group("/tenants")
	{
		tenants.POST("", h.Tenants.Create)
		tenants.GET("", h.Tenants.List)
		tenants.GET("/:id", h.Tenants.Get)
		tenants.PATCH("/:id", h.Tenants.Update)
		tenants.DELETE("/:id", h.Tenants.Delete)
		tenants.GET("/:id/alerts", h.Tenants.Alerts)
	}

	payments := v1.Group("/payments")
	{
		payments.GET("", h.Payments.List)
		payments.GET("/outstanding", h.Payments.Outstanding)
		payments.GET("/:id", h.Payments.Get)
		payments.PATCH("/:id", h.Payments.Update)
		payments.DELETE("/:id", h.Payments.Delete)
	}

	invoices := v1.Group("/invoices")
	{
		invoices.POST("", h.Invoices.Create)
		invoices.GET("", h.Invoices.List)
		invoices.GET("/:id", h.Invoices.Get)
		invoices.PATCH("/:id", h.Invoices.Update)
		invoices.DELETE("/:id", h.Invoices.Delete)
	}

	v1.GET("/stats", h.Stats.Get)
}
