package alerts

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/leasebook/internal/logger"
)

// LogNotifier writes reminders to the log instead of delivering them.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithComponent("notifier")}
}

// Notify logs the reminder. It fails only for tenants without an email address.
func (n *LogNotifier) Notify(ctx context.Context, notice Notice) (bool, string) {
	if notice.Tenant.Email == nil || *notice.Tenant.Email == "" {
		return false, "tenant has no email address"
	}

	due := decimal.Zero
	for _, p := range notice.Outstanding {
		due = due.Add(p.Amount)
	}

	n.log.Info("Unpaid rent reminder", map[string]interface{}{
		"to":       *notice.Tenant.Email,
		"tenant":   notice.Tenant.Name,
		"unit":     notice.Unit.Label,
		"address":  notice.Property.Address,
		"oldest":   notice.Payment.Period().String(),
		"payments": len(notice.Outstanding),
		"due":      due.StringFixed(2),
	})
	return true, "logged"
}
