package workers

import (
	"context"
	"francoggm/antiscam-scoring/internal/app/workers/processors"
	"sync"

	"go.uber.org/zap"
)

type Orchestrator struct {
	workers         []*worker
	eventsCh        chan any
	eventsProcessor processors.Processor
	wg              sync.WaitGroup
}

func NewOrchestrator(workersCount int, eventsCh chan any, eventsProcessor processors.Processor, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	var workers []*worker
	for id := range workersCount {
		worker := newWorker(id, eventsCh, eventsProcessor, logger)
		workers = append(workers, worker)
	}

	return &Orchestrator{
		workers:         workers,
		eventsCh:        eventsCh,
		eventsProcessor: eventsProcessor,
	}
}

func (o *Orchestrator) StartWorkers(ctx context.Context) {
	for _, worker := range o.workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			worker.start(ctx)
		}()
	}
}

// Wait blocks until every worker has returned, either because ctx was canceled or the
// events channel was closed and drained.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
