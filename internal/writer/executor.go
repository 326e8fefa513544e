package writer

import (
	"context"
	"fmt"

	"github.com/simonhull/confgen/internal/logger"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun bool
	Logger logger.Logger // defaults to logger.Default()
}

// Execute validates every operation, then runs them in order.
// In dry-run mode operations are validated and logged but not executed.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	// Phase 1: Validate all operations
	for _, op := range ops {
		if err := op.Validate(ctx); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	// Phase 2: Execute or report
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		if opts.DryRun {
			log.Info("dry run", logger.F("op", op.Description()))
			continue
		}

		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		log.Debug("executed", logger.F("op", op.Description()))
	}

	return nil
}
