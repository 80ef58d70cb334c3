package domain

import "context"

// RunnerPort starts the supervisors and blocks until the context ends
type RunnerPort interface {
	Run(ctx context.Context) error
}
