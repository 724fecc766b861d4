package task

import (
	"context"
	"log"
	"time"

	qport "github.com/RajeebLochan/QuickPost/internal/infrastructure/queue/port"
	"github.com/RajeebLochan/QuickPost/internal/pkg/quotes/application/usecase"
)

// RefreshQuoteTaskType is the queue task name for refreshing the daily quote.
const RefreshQuoteTaskType = "quotes:refresh"

const refreshInterval = 12 * time.Hour

// RegisterRefreshQuoteTask binds the refresh handler to the worker server.
// Each run re-enqueues the next one, so a single seed enqueue keeps the
// schedule alive; uniqueness on the queue prevents pile-up across restarts.
func RegisterRefreshQuoteTask(srv qport.Server, client qport.Client, refresh *usecase.RefreshQuoteUseCase) {
	srv.Register(RefreshQuoteTaskType, func(ctx context.Context, t qport.Task) error {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if _, err := refresh.Execute(ctx); err != nil {
			// Returning the error lets asynq retry with backoff; the stale
			// cached quote keeps serving meanwhile.
			return err
		}
		EnqueueNextRefresh(ctx, client)
		return nil
	})
}

// EnqueueNextRefresh schedules the next refresh run. Failures are logged and
// dropped: the inline refresh on a cache miss covers a broken schedule.
func EnqueueNextRefresh(ctx context.Context, client qport.Client) {
	_, err := client.Enqueue(ctx, qport.Task{Type: RefreshQuoteTaskType}, qport.EnqueueOption{
		Queue:     "quotes",
		ProcessIn: refreshInterval,
		MaxRetry:  5,
		UniqueTTL: refreshInterval,
	})
	if err != nil {
		log.Printf("quotes: schedule next refresh: %v", err)
	}
}
