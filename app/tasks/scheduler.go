package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gradstats/app/cfg"
)

// ErrPullInProgress is returned when a pull task is enqueued while another
// pull is queued or running. Pulls are single-flight: running two concurrent
// scrapes of the same site wastes requests and races on the checkpoint.
var ErrPullInProgress = errors.New("a data pull is already in progress")

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	interval    time.Duration
	workerCount int
	newPullTask func() TaskInterface
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
	pullRunning atomic.Bool
}

// NewScheduler builds the worker-pool scheduler. newPullTask produces the
// periodic pull task; it is only used when the scheduler interval is
// non-zero.
func NewScheduler(newPullTask func() TaskInterface) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	config := cfg.Get()

	return &Scheduler{
		interval:    time.Duration(config.SchedulerInterval) * time.Second,
		workerCount: config.WorkerCount,
		newPullTask: newPullTask,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 32),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.interval <= 0 {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.EnqueueTask(s.newPullTask()); err != nil {
					slog.Warn("Failed to enqueue scheduled pull", "error", err)
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) IsPullRunning() bool {
	return s.pullRunning.Load()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if task.GetType() == TaskTypePullData {
		if !s.pullRunning.CompareAndSwap(false, true) {
			return ErrPullInProgress
		}
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		s.releasePull(task)
		return s.ctx.Err()
	default:
		s.releasePull(task)
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) releasePull(task TaskInterface) {
	if task.GetType() == TaskTypePullData {
		s.pullRunning.Store(false)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 30*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err == nil {
		s.releasePull(task)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.releasePull(task)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// The retry goroutine joins the wait group so Stop cannot close the
	// queue while a requeue is pending.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.releasePull(task)
			return
		case <-timer.C:
		}

		if retryErr := s.requeue(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			s.releasePull(task)
		}
	}()
}

// requeue puts a retried task back on the queue without re-running the
// single-flight check: a retried pull still holds the flag.
func (s *Scheduler) requeue(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}
