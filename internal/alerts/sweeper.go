// Package alerts drives the unpaid-rent reminder sweep. The sweep is started
// from outside (the leasectl CLI) and never schedules itself.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// Notice is what a notifier receives for one tenant. Payment is the oldest
// outstanding payment; Outstanding lists all of them.
type Notice struct {
	Tenant      models.Tenant
	Payment     models.Payment
	Unit        models.Unit
	Property    models.Property
	Outstanding []models.Payment
}

// Notifier delivers one reminder and reports whether it went out.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) (ok bool, message string)
}

// Result summarises one sweep.
type Result struct {
	Candidates int `json:"candidates"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Sweeper reminds tenants about unpaid rent, at most once per calendar month.
type Sweeper struct {
	store    repository.Store
	notifier Notifier
	startDay int
	log      *logger.Logger
}

// NewSweeper creates a Sweeper that stays idle before startDay of each month.
func NewSweeper(store repository.Store, notifier Notifier, startDay int, log *logger.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		notifier: notifier,
		startDay: startDay,
		log:      log.WithComponent("alerts"),
	}
}

// Run performs one sweep as of now.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (*Result, error) {
	now = now.UTC()
	result := &Result{}
	if now.Day() < s.startDay {
		s.log.Info("Alert sweep skipped before start day", map[string]interface{}{
			"day":       now.Day(),
			"start_day": s.startDay,
		})
		return result, nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	notices, err := s.collect(ctx, models.PeriodOf(models.DateOf(now)), monthStart, result)
	if err != nil {
		return nil, err
	}

	for _, notice := range notices {
		ok, message := s.notifier.Notify(ctx, notice)

		alert := models.PaymentAlert{
			TenantID:  notice.Tenant.ID,
			PaymentID: notice.Payment.ID,
			SentAt:    now,
			Status:    models.AlertSent,
		}
		if !ok {
			alert.Status = models.AlertError
			alert.Message = &message
		}
		err := s.store.Atomic(ctx, func(uow repository.UnitOfWork) error {
			return uow.Alerts().Create(&alert)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record alert for tenant %d: %w", notice.Tenant.ID, err)
		}

		fields := map[string]interface{}{
			"tenant_id":  notice.Tenant.ID,
			"payment_id": notice.Payment.ID,
			"period":     notice.Payment.Period().String(),
		}
		if ok {
			result.Sent++
			s.log.Info("Unpaid rent alert sent", fields)
		} else {
			result.Failed++
			fields["message"] = message
			s.log.Warn("Unpaid rent alert failed", fields)
		}
	}

	s.log.Info("Alert sweep finished", map[string]interface{}{
		"candidates": result.Candidates,
		"sent":       result.Sent,
		"failed":     result.Failed,
		"skipped":    result.Skipped,
	})
	return result, nil
}

// collect builds one notice per tenant with outstanding payments who has not
// been alerted since monthStart.
func (s *Sweeper) collect(ctx context.Context, asOf models.Period, monthStart time.Time, result *Result) ([]Notice, error) {
	var notices []Notice
	err := s.store.View(ctx, func(uow repository.UnitOfWork) error {
		outstanding, err := uow.Payments().ListOutstanding(asOf)
		if err != nil {
			return err
		}
		result.Candidates = len(outstanding)

		byTenant := make(map[uint]int)
		alerted := make(map[uint]bool)
		for _, payment := range outstanding {
			if i, seen := byTenant[payment.TenantID]; seen {
				notices[i].Outstanding = append(notices[i].Outstanding, payment)
				result.Skipped++
				continue
			}
			if alerted[payment.TenantID] {
				result.Skipped++
				continue
			}

			sent, err := uow.Alerts().SentSince(payment.TenantID, monthStart)
			if err != nil {
				return err
			}
			if sent {
				alerted[payment.TenantID] = true
				result.Skipped++
				continue
			}

			notice, err := loadNotice(uow, payment)
			if err != nil {
				return err
			}
			byTenant[payment.TenantID] = len(notices)
			notices = append(notices, *notice)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect outstanding payments: %w", err)
	}
	return notices, nil
}

func loadNotice(uow repository.UnitOfWork, payment models.Payment) (*Notice, error) {
	tenant, err := uow.Tenants().FindByID(payment.TenantID)
	if err != nil {
		return nil, err
	}
	unit, err := uow.Units().FindByID(payment.UnitID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || unit == nil {
		return nil, fmt.Errorf("payment %d references a missing tenant or unit", payment.ID)
	}
	property, err := uow.Properties().FindByID(unit.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("unit %d references a missing property", unit.ID)
	}

	return &Notice{
		Tenant:      *tenant,
		Payment:     payment,
		Unit:        *unit,
		Property:    *property,
		Outstanding: []models.Payment{payment},
	}, nil
}
