package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/leasebook/internal/alerts"
	"github.com/stwalsh4118/leasebook/internal/models"
	"github.com/stwalsh4118/leasebook/internal/services"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.db == nil {
				return fmt.Errorf("no database handle to migrate")
			}
			if err := a.db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

func amendCmd(a *app) *cobra.Command {
	var (
		leaseID   uint
		rent      string
		charges   string
		effective string
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "amend",
		Short: "Change the rent and charges of a lease from an effective date",
		RunE: func(cmd *cobra.Command, args []string) error {
			newRent, err := decimal.NewFromString(rent)
			if err != nil {
				return fmt.Errorf("invalid --rent %q: %w", rent, err)
			}
			newCharges, err := decimal.NewFromString(charges)
			if err != nil {
				return fmt.Errorf("invalid --charges %q: %w", charges, err)
			}
			date, err := models.ParseDate(effective)
			if err != nil {
				return fmt.Errorf("invalid --effective: %w", err)
			}

			in := services.Amendment{
				LeaseID:       leaseID,
				NewRent:       newRent,
				NewCharges:    newCharges,
				EffectiveDate: date,
			}
			if notes != "" {
				in.Notes = &notes
			}

			result, err := services.NewAmendmentService(a.store, a.log).Amend(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Lease %d: %s -> %s from %s, %d payments updated\n",
				result.Lease.ID,
				result.Record.OldTotal().StringFixed(2),
				result.Record.NewTotal().StringFixed(2),
				date,
				result.Touched,
			)
			return nil
		},
	}

	cmd.Flags().UintVar(&leaseID, "lease", 0, "lease id")
	cmd.Flags().StringVar(&rent, "rent", "", "new monthly rent")
	cmd.Flags().StringVar(&charges, "charges", "", "new monthly charges")
	cmd.Flags().StringVar(&effective, "effective", "", "effective date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes kept with the amendment")
	for _, name := range []string{"lease", "rent", "charges", "effective"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func outstandingCmd(a *app) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "outstanding",
		Short: "List unpaid payments up to a month (default: current month)",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf := models.PeriodOf(models.DateOf(a.now().UTC()))
			if year != 0 {
				asOf.Year = year
			}
			if month != 0 {
				asOf.Month = month
			}

			payments, err := services.NewPaymentService(a.store, nil, nil, a.log).ListOutstanding(cmd.Context(), asOf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(payments) == 0 {
				fmt.Fprintf(out, "No outstanding payments up to %s.\n", asOf)
				return nil
			}

			total := decimal.Zero
			fmt.Fprintf(out, "%-8s  %-8s  %-8s  %12s\n", "Payment", "Tenant", "Period", "Amount")
			for _, p := range payments {
				fmt.Fprintf(out, "%-8d  %-8d  %-8s  %12s\n", p.ID, p.TenantID, p.Period(), p.Amount.StringFixed(2))
				total = total.Add(p.Amount)
			}
			fmt.Fprintf(out, "%d payments, %s due\n", len(payments), total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year of the last month to include")
	cmd.Flags().IntVar(&month, "month", 0, "last month to include (1-12)")
	return cmd
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print ledger statistics for the current month",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := services.NewStatsService(a.store, a.log).Compute(cmd.Context(), a.now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s %s\n", "Period", stats.Period)
			fmt.Fprintf(out, "%-16s %d\n", "Properties", stats.Properties)
			fmt.Fprintf(out, "%-16s %d (%d available)\n", "Units", stats.Units, stats.AvailableUnits)
			fmt.Fprintf(out, "%-16s %.1f%%\n", "Occupancy", stats.OccupancyRate)
			fmt.Fprintf(out, "%-16s %d\n", "Active tenants", stats.ActiveTenants)
			fmt.Fprintf(out, "%-16s %d\n", "Unpaid payments", stats.UnpaidPayments)
			fmt.Fprintf(out, "%-16s %s\n", "Month revenue", stats.MonthRevenue.StringFixed(2))
			fmt.Fprintf(out, "%-16s %s\n", "Expected rent", stats.ExpectedRent.StringFixed(2))
			fmt.Fprintf(out, "%-16s %d (%s due)\n", "Unpaid invoices", stats.UnpaidInvoices, stats.InvoicesDue.StringFixed(2))
			return nil
		},
	}
}

func alertsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Unpaid-rent reminders",
	}

	var startDay int
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Send this month's reminders for outstanding payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := startDay
			if day == 0 && a.cfg != nil {
				day = a.cfg.Alerts.StartDay
			}
			if day < 1 || day > 28 {
				return fmt.Errorf("start day must be between 1 and 28, got %d", day)
			}

			sweeper := alerts.NewSweeper(a.store, alerts.NewLogNotifier(a.log), day, a.log)
			result, err := sweeper.Run(cmd.Context(), a.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d candidates: %d sent, %d failed, %d skipped\n",
				result.Candidates, result.Sent, result.Failed, result.Skipped)
			return nil
		},
	}
	sweep.Flags().IntVar(&startDay, "start-day", 0, "first day of the month reminders go out (default ALERT_START_DAY)")

	cmd.AddCommand(sweep)
	return cmd
}
