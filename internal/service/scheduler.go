package service

import (
	"context"
	"time"
)

// DeferredTask is a scheduled callback that can be cancelled before it fires.
type DeferredTask interface {
	// Cancel stops the task. It reports false if the task already fired or was cancelled.
	Cancel() bool
}

// Scheduler runs fn once after delay. Implementations decide which goroutine fn runs on.
type Scheduler interface {
	Schedule(delay time.Duration, fn func(ctx context.Context)) DeferredTask
}
