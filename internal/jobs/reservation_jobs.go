package jobs

import (
	"context"
	"time"

	"gameplaza-backend/internal/logger"
)

// MarkNoShows marks approved reservations whose start passed the auto
// no-show cutoff without a check-in.
func (jr *JobRunner) MarkNoShows() {
	jr.runWithRecovery("MarkNoShows", func(ctx context.Context) {
		count, err := jr.services.Reservation.ProcessAutoNoShow(ctx)
		if err != nil {
			logger.Error("Failed to mark no-shows", "error", err)
			return
		}
		logger.Info("Marked reservations as no-show", "count", count)
	})
}

// ReportPendingPayments logs check-ins that have waited for payment longer
// than the configured alert threshold, so the front desk can follow up.
func (jr *JobRunner) ReportPendingPayments() {
	jr.runWithRecovery("ReportPendingPayments", func(ctx context.Context) {
		pending, err := jr.services.CheckIn.ListPendingPayments(ctx)
		if err != nil {
			logger.Error("Failed to list pending payments", "error", err)
			return
		}

		now := jr.settings.Now()
		overdue := 0
		for _, c := range pending {
			waited := now.Sub(c.CheckInTime)
			if waited < jr.settings.PendingPaymentAlert {
				continue
			}
			overdue++
			logger.Warn("Check-in waiting for payment",
				"check_in_id", c.ID,
				"reservation_id", c.ReservationID,
				"device_id", c.DeviceID,
				"amount", c.FinalAmount(),
				"checked_in_at", c.CheckInTime.In(jr.settings.Location).Format(time.DateTime),
				"waited_minutes", int(waited.Minutes()))
		}
		logger.Info("Pending payment report", "pending", len(pending), "overdue", overdue)
	})
}
