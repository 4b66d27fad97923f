package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrJobInFlight is returned when the same kind of job for the same shop
	// is already queued or running
	ErrJobInFlight = errors.New("job already queued for this shop")

	// ErrUnknownJobKind is returned by Mux for kinds with no executor
	ErrUnknownJobKind = errors.New("unknown job kind")
)
