// Package scheduler provides task scheduling and worker pool management for
// pagerank sweep points: it pulls pending runs from one or more sources and
// fans them out to a bounded pool of solver workers.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/pagerank-bench/internal/scheduler/source"
	"github.com/pagerank-bench/pkg/config"
	"github.com/pagerank-bench/pkg/model"
	"github.com/pagerank-bench/pkg/utils"
)

// TaskProcessor defines the interface for processing a single pending run:
// loading its graph, running the solver, and persisting the result.
type TaskProcessor interface {
	Process(ctx context.Context, run *model.Run) error
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	PollInterval  time.Duration // How often to poll for new runs
	WorkerCount   int           // Number of concurrent workers
	PrioritySlots int           // Reserved slots for high priority runs
	TaskBatchSize int           // Max runs to fetch per poll
}

// DefaultSchedulerConfig returns default scheduler configuration.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		PollInterval:  2 * time.Second,
		WorkerCount:   5,
		PrioritySlots: 2,
		TaskBatchSize: 10,
	}
}

// FromConfig creates scheduler config from application config.
func FromConfig(cfg *config.SchedulerConfig) *SchedulerConfig {
	return &SchedulerConfig{
		PollInterval:  time.Duration(cfg.PollInterval) * time.Second,
		WorkerCount:   cfg.WorkerCount,
		PrioritySlots: cfg.PrioritySlots,
		TaskBatchSize: cfg.TaskBatchSize,
	}
}

// Scheduler manages run scheduling and the solver worker pool.
type Scheduler struct {
	config    *SchedulerConfig
	processor TaskProcessor
	logger    utils.Logger

	// Source-based run fetching (Strategy Pattern)
	aggregator *source.Aggregator

	workerPool chan struct{}  // Semaphore for worker count
	taskQueue  chan *queued   // Run queue
	wg         sync.WaitGroup // Wait group for workers

	running bool
	stopCh  chan struct{}
}

// queued pairs a pending run with the priority and source event it arrived
// with, so the worker can ack/nack the right source on completion.
type queued struct {
	run      *model.Run
	priority int
	event    *source.TaskEvent
}

// New creates a new Scheduler with a source aggregator.
func New(config *SchedulerConfig, aggregator *source.Aggregator, processor TaskProcessor, logger utils.Logger) *Scheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	return &Scheduler{
		config:     config,
		aggregator: aggregator,
		processor:  processor,
		logger:     logger,
		workerPool: make(chan struct{}, config.WorkerCount),
		taskQueue:  make(chan *queued, config.TaskBatchSize*2),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting scheduler with %d workers", s.config.WorkerCount)

	s.running = true

	// Start worker goroutines
	for i := 0; i < s.config.WorkerCount; i++ {
		s.workerPool <- struct{}{}
	}

	// Start the aggregator
	if err := s.aggregator.Start(ctx); err != nil {
		return err
	}

	// Start the source-based event loop
	go s.sourceEventLoop(ctx)

	// Start the run processing loop
	go s.processLoop(ctx)

	return nil
}

// Stop stops the scheduler gracefully.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	s.running = false
	close(s.stopCh)

	// Wait for all workers to complete
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// shouldAcceptTask determines if a run should be accepted based on priority.
func (s *Scheduler) shouldAcceptTask(priority int) bool {
	activeWorkers := s.config.WorkerCount - len(s.workerPool)
	reservedSlots := s.config.WorkerCount - s.config.PrioritySlots

	// High priority runs can always be accepted if there's capacity
	if priority > 0 {
		return activeWorkers < s.config.WorkerCount
	}

	// Normal priority runs can only use non-reserved slots
	return activeWorkers < reservedSlots
}

// processLoop processes queued runs.
func (s *Scheduler) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case q := <-s.taskQueue:
			// Acquire a worker slot
			select {
			case <-s.workerPool:
				s.wg.Add(1)
				go s.processTask(ctx, q)
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			}
		}
	}
}

// processTask processes a single run.
func (s *Scheduler) processTask(ctx context.Context, q *queued) {
	defer func() {
		s.workerPool <- struct{}{} // Release worker slot
		s.wg.Done()
	}()

	run := q.run
	s.logger.Info("Processing run %s (graph: %s, variant: %s)", run.RunUUID, run.GraphName, run.Options.Variant)

	startTime := time.Now()
	err := s.processor.Process(ctx, run)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Run %s failed after %v: %v", run.RunUUID, duration, err)
		if q.event != nil {
			if nackErr := s.aggregator.Nack(ctx, q.event, err.Error()); nackErr != nil {
				s.logger.Error("Failed to nack run %s: %v", run.RunUUID, nackErr)
			}
		}
		return
	}

	s.logger.Info("Run %s completed successfully in %v", run.RunUUID, duration)
	if q.event != nil {
		if ackErr := s.aggregator.Ack(ctx, q.event); ackErr != nil {
			s.logger.Error("Failed to ack run %s: %v", run.RunUUID, ackErr)
		}
	}
}

// sourceEventLoop receives run events from the aggregator and queues them for processing.
func (s *Scheduler) sourceEventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case event, ok := <-s.aggregator.Tasks():
			if !ok {
				s.logger.Info("Aggregator channel closed")
				return
			}

			q := &queued{run: event.Task, priority: event.Priority, event: event}

			if !s.shouldAcceptTask(q.priority) {
				s.logger.Debug("Skipping run %s due to priority constraints", q.run.RunUUID)
				continue
			}

			select {
			case s.taskQueue <- q:
				s.logger.Info("Queued run %s from source %s/%s", q.run.RunUUID, event.SourceType, event.SourceName)
			default:
				// Queue full: nack the event. The database source marks the
				// run failed; the http and kafka sources only log it.
				s.logger.Warn("Task queue full, nacking run %s", q.run.RunUUID)
				if err := s.aggregator.Nack(ctx, event, "task queue full"); err != nil {
					s.logger.Error("Failed to nack event: %v", err)
				}
			}
		}
	}
}

// Stats returns current scheduler statistics.
func (s *Scheduler) Stats() SchedulerStats {
	return SchedulerStats{
		ActiveWorkers: s.config.WorkerCount - len(s.workerPool),
		TotalWorkers:  s.config.WorkerCount,
		QueuedTasks:   len(s.taskQueue),
		Running:       s.running,
	}
}

// SchedulerStats holds scheduler statistics.
type SchedulerStats struct {
	ActiveWorkers int  `json:"active_workers"`
	TotalWorkers  int  `json:"total_workers"`
	QueuedTasks   int  `json:"queued_tasks"`
	Running       bool `json:"running"`
}
