package source

import (
	"context"
	"sync"
	"time"

	"github.com/pagerank-bench/internal/repository"
	"github.com/pagerank-bench/pkg/utils"
)

// SourceTypeDB is the source type constant for database source.
const SourceTypeDB SourceType = "database"

func init() {
	// Register the database source strategy
	Register(SourceTypeDB, NewDatabaseSource)
}

// DatabaseOptions holds database source specific configuration.
type DatabaseOptions struct {
	// PollInterval is how often to poll for new pending runs.
	PollInterval time.Duration

	// BatchSize is the maximum number of runs to fetch per poll.
	BatchSize int
}

// DefaultDatabaseOptions returns the default options.
func DefaultDatabaseOptions() *DatabaseOptions {
	return &DatabaseOptions{
		PollInterval: 2 * time.Second,
		BatchSize:    10,
	}
}

// DatabaseSource implements TaskSource by polling the run repository for
// pending sweep points.
type DatabaseSource struct {
	name    string
	options *DatabaseOptions
	logger  utils.Logger

	runRepo repository.RunRepository

	taskChan chan *TaskEvent
	stopCh   chan struct{}

	mu      sync.RWMutex
	running bool
}

// NewDatabaseSource creates a new database source from configuration.
func NewDatabaseSource(cfg *SourceConfig) (TaskSource, error) {
	opts := &DatabaseOptions{
		PollInterval: cfg.GetDuration("poll_interval", 2*time.Second),
		BatchSize:    cfg.GetInt("batch_size", 10),
	}

	return &DatabaseSource{
		name:     cfg.Name,
		options:  opts,
		taskChan: make(chan *TaskEvent, opts.BatchSize*2),
		stopCh:   make(chan struct{}),
	}, nil
}

// NewDatabaseSourceWithDeps creates a new database source with explicit dependencies.
// This is useful for production use where repositories are already initialized.
func NewDatabaseSourceWithDeps(name string, opts *DatabaseOptions, runRepo repository.RunRepository, logger utils.Logger) *DatabaseSource {
	if opts == nil {
		opts = DefaultDatabaseOptions()
	}
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	return &DatabaseSource{
		name:     name,
		options:  opts,
		logger:   logger,
		runRepo:  runRepo,
		taskChan: make(chan *TaskEvent, opts.BatchSize*2),
		stopCh:   make(chan struct{}),
	}
}

// SetRepository sets the run repository.
// This must be called before Start if using the factory-created source.
func (s *DatabaseSource) SetRepository(runRepo repository.RunRepository) {
	s.runRepo = runRepo
}

// SetLogger sets the logger.
func (s *DatabaseSource) SetLogger(logger utils.Logger) {
	s.logger = logger
}

// Type returns the source type.
func (s *DatabaseSource) Type() SourceType {
	return SourceTypeDB
}

// Name returns the source instance name.
func (s *DatabaseSource) Name() string {
	return s.name
}

// Start starts the database polling loop.
func (s *DatabaseSource) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}

	if s.runRepo == nil {
		s.mu.Unlock()
		return nil // No repository configured, skip
	}

	s.running = true
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Database source %s starting with poll_interval=%v, batch_size=%d",
			s.name, s.options.PollInterval, s.options.BatchSize)
	}

	go s.pollLoop(ctx)
	return nil
}

// Stop stops the database source.
func (s *DatabaseSource) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	return nil
}

// Tasks returns the task event channel.
func (s *DatabaseSource) Tasks() <-chan *TaskEvent {
	return s.taskChan
}

// Ack is a no-op for the database source. The scheduler calls it after
// Process succeeds, by which time the processor has recorded the run's
// completion via RunRepository.CompleteRun.
func (s *DatabaseSource) Ack(ctx context.Context, event *TaskEvent) error {
	return nil
}

// Nack indicates a run failed before or during solving and marks it failed.
func (s *DatabaseSource) Nack(ctx context.Context, event *TaskEvent, reason string) error {
	if s.runRepo == nil || event.Task == nil {
		return nil
	}
	return s.runRepo.FailRun(ctx, event.Task.RunUUID, reason)
}

// HealthCheck checks the database connection.
func (s *DatabaseSource) HealthCheck(ctx context.Context) error {
	if s.runRepo == nil {
		return nil
	}
	// Try to fetch pending runs as a health check.
	_, err := s.runRepo.GetPendingRuns(ctx, 1)
	return err
}

// pollLoop continuously polls the repository for pending runs.
func (s *DatabaseSource) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.options.PollInterval)
	defer ticker.Stop()

	// Initial poll
	s.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll fetches pending runs and emits them to the task channel.
func (s *DatabaseSource) poll(ctx context.Context) {
	if s.runRepo == nil {
		return
	}

	runs, err := s.runRepo.GetPendingRuns(ctx, s.options.BatchSize)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("Database source %s failed to fetch runs: %v", s.name, err)
		}
		return
	}

	for _, run := range runs {
		// Stop before claiming once the channel is full, so the remaining
		// runs stay pending and the next poll picks them up.
		if len(s.taskChan) == cap(s.taskChan) {
			break
		}

		// Try to claim the run.
		claimed, err := s.runRepo.ClaimRun(ctx, run.RunUUID)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("Database source %s failed to claim run %s: %v", s.name, run.RunUUID, err)
			}
			continue
		}
		if !claimed {
			continue // Run already claimed by another instance
		}

		// Create and emit task event
		event := NewTaskEvent(run, SourceTypeDB, s.name).
			WithMetadata("claimed_at", time.Now().Format(time.RFC3339))

		select {
		case s.taskChan <- event:
			if s.logger != nil {
				s.logger.Debug("Database source %s emitted run %s", s.name, run.RunUUID)
			}
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		default:
			// Channel full, run will be picked up in next poll.
			if s.logger != nil {
				s.logger.Warn("Database source %s task channel full, run %s will retry", s.name, run.RunUUID)
			}
		}
	}
}
