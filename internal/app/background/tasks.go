package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/agrirent/rental-order-service/internal/infrastructure/metrics"
	usecase "github.com/agrirent/rental-order-service/internal/usecase/order"
)

// BackgroundTasks runs the expiration sweeper for the lifetime of the
// process. Each tick reuses the order usecase transition contracts; the
// sweeper never writes state on its own.
type BackgroundTasks struct {
	OrderUsecase usecase.OrderUsecase
	Metrics      *metrics.OrderMetrics
	Interval     time.Duration
	Timeout      time.Duration
}

func NewBackgroundTasks(orderUC usecase.OrderUsecase, orderMetrics *metrics.OrderMetrics, interval, timeout time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		OrderUsecase: orderUC,
		Metrics:      orderMetrics,
		Interval:     interval,
		Timeout:      timeout,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startExpirationSweep(ctx)
}

func (bt *BackgroundTasks) startExpirationSweep(ctx context.Context) {
	ticker := time.NewTicker(bt.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs one full sweeper tick under a per-tick deadline, so a hung
// store call cannot stall the loop past the next tick. A failure of one
// phase is logged and the remaining phases still run; the next tick retries
// everything.
func (bt *BackgroundTasks) SweepOnce(ctx context.Context) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, bt.Timeout)
	defer cancel()

	if err := bt.OrderUsecase.CancelExpiredOrders(ctx); err != nil {
		slog.Error("sweep: cancel expired orders failed", "error", err.Error())
	}
	if err := bt.OrderUsecase.PromoteStartedOrders(ctx); err != nil {
		slog.Error("sweep: promote started orders failed", "error", err.Error())
	}
	if err := bt.OrderUsecase.MarkOverdueRentals(ctx); err != nil {
		slog.Error("sweep: mark overdue rentals failed", "error", err.Error())
	}

	if bt.Metrics != nil {
		bt.Metrics.SweepDuration.Observe(time.Since(started).Seconds())
	}
}
