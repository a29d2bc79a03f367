package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. The web layer enqueues pull and refresh tasks through it and
// consults IsPullRunning to reject concurrent pulls.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	IsPullRunning() bool
}
