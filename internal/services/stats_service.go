package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// Stats is a live snapshot of the ledger.
type Stats struct {
	Period         models.Period   `json:"period"`
	Properties     int64           `json:"properties"`
	Units          int64           `json:"units"`
	AvailableUnits int64           `json:"availableUnits"`
	ActiveTenants  int64           `json:"activeTenants"`
	UnpaidPayments int64           `json:"unpaidPayments"`
	UnpaidInvoices int64           `json:"unpaidInvoices"`
	OccupancyRate  float64         `json:"occupancyRate"`
	MonthRevenue   decimal.Decimal `json:"monthRevenue"`
	ExpectedRent   decimal.Decimal `json:"expectedRent"`
	InvoicesDue    decimal.Decimal `json:"invoicesDue"`
}

// StatsService computes ledger aggregates. Nothing is cached.
type StatsService interface {
	// Compute returns the aggregates with revenue taken for the month of now.
	Compute(ctx context.Context, now time.Time) (*Stats, error)
}

type statsService struct {
	store repository.Store
	log   *logger.Logger
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(store repository.Store, log *logger.Logger) StatsService {
	return &statsService{
		store: store,
		log:   log.WithComponent("stats"),
	}
}

func (s *statsService) Compute(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{Period: models.PeriodOf(models.DateOf(now))}

	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		var err error
		if stats.Properties, err = uow.Properties().Count(); err != nil {
			return err
		}
		if stats.Units, err = uow.Units().Count(false); err != nil {
			return err
		}
		if stats.AvailableUnits, err = uow.Units().Count(true); err != nil {
			return err
		}
		if stats.ActiveTenants, err = uow.Tenants().CountActive(); err != nil {
			return err
		}
		if stats.UnpaidPayments, err = uow.Payments().CountByStatus(models.PaymentUnpaid); err != nil {
			return err
		}
		if stats.MonthRevenue, err = uow.Payments().SumPaid(stats.Period); err != nil {
			return err
		}
		if stats.UnpaidInvoices, err = uow.Invoices().CountUnpaid(); err != nil {
			return err
		}
		if stats.InvoicesDue, err = uow.Invoices().SumUnpaid(); err != nil {
			return err
		}

		occupied, err := uow.Units().ListOccupied()
		if err != nil {
			return err
		}
		stats.ExpectedRent = decimal.Zero
		for _, u := range occupied {
			stats.ExpectedRent = stats.ExpectedRent.Add(u.Total())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	if stats.Units > 0 {
		occupied := stats.Units - stats.AvailableUnits
		stats.OccupancyRate = float64(occupied) / float64(stats.Units) * 100
	}

	s.log.Debug("Statistics computed", map[string]interface{}{
		"period":    stats.Period.String(),
		"occupancy": stats.OccupancyRate,
	})
	return stats, nil
}
