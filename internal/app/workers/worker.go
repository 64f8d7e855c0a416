package workers

import (
	"context"
	"francoggm/antiscam-scoring/internal/app/workers/processors"

	"go.uber.org/zap"
)

type worker struct {
	id              int
	eventsCh        chan any
	eventsProcessor processors.Processor
	logger          *zap.Logger
}

func newWorker(id int, eventsCh chan any, eventsProcessor processors.Processor, logger *zap.Logger) *worker {
	return &worker{
		id:              id,
		eventsCh:        eventsCh,
		eventsProcessor: eventsProcessor,
		logger:          logger.With(zap.Int("worker_id", id)),
	}
}

func (w *worker) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.eventsCh:
			if !ok {
				return
			}

			// Events are dropped on failure; run history is best effort.
			if err := w.eventsProcessor.ProcessEvent(ctx, event); err != nil {
				w.logger.Error("event_processing_failed", zap.Error(err))
			}
		}
	}
}
