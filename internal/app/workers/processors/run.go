package processors

import (
	"context"
	"fmt"
	"francoggm/antiscam-scoring/internal/models"
)

type RunSaver interface {
	SaveRun(ctx context.Context, run *models.RunSummary) error
}

// RunProcessor persists the summary of a finished scoring run.
type RunProcessor struct {
	store RunSaver
}

func NewRunProcessor(store RunSaver) *RunProcessor {
	return &RunProcessor{
		store: store,
	}
}

func (p *RunProcessor) ProcessEvent(ctx context.Context, event any) error {
	run, ok := event.(*models.RunSummary)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	return p.store.SaveRun(ctx, run)
}
