package reconcile

import (
	"context"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/metrics"
	"log/slog"
	"time"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SeatReconciler
type SeatReconciler interface {
	ReconcileBookedSeats(ctx context.Context) (int64, error)
}

// Run repairs drifted booked seat counters every interval until ctx is done.
// A non-positive interval disables the job.
func Run(ctx context.Context, log *slog.Logger, reconciler SeatReconciler, interval time.Duration) {
	const op = "reconcile.Run"

	log = log.With(slog.String("op", op))

	if interval <= 0 {
		log.Info("seat reconciliation disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			Once(ctx, log, reconciler)
		case <-ctx.Done():
			return
		}
	}
}

func Once(ctx context.Context, log *slog.Logger, reconciler SeatReconciler) {
	repaired, err := reconciler.ReconcileBookedSeats(ctx)
	if repaired > 0 {
		metrics.SeatsReconciled(repaired)
		log.Warn("booked seat counters repaired", slog.Int64("events", repaired))
	}

	if err != nil {
		log.Error("failed to reconcile booked seats", sl.Err(err))
	}
}
