package service

import (
	"context"
	"fmt"
	"log"
)

// sagaStep is one action in a multi-document write sequence, paired with the
// compensation that undoes it. compensate is nil when the step leaves nothing
// behind on its own (for example sub-document writes that die with their
// parent's compensation).
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga executes steps in order. When a step fails, the compensations of
// every completed earlier step run in reverse order, best effort: a failed
// compensation is logged and the rollback continues. The returned error wraps
// the failing step's error, so typed errors stay matchable.
func runSaga(ctx context.Context, steps []sagaStep) error {
	for i, step := range steps {
		if err := step.run(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				if steps[j].compensate == nil {
					continue
				}
				if cerr := steps[j].compensate(ctx); cerr != nil {
					log.Printf("[SAGA] Compensation for step %q failed: %v", steps[j].name, cerr)
				}
			}
			return fmt.Errorf("step %s: %w", step.name, err)
		}
	}
	return nil
}
