// Package download orchestrates batch downloads of certificate records
// from the SEP portal.
package download

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanjacob/kangaroo/cert"
	"github.com/sanjacob/kangaroo/errors"
)

// State represents the current state of a download task
type State string

const (
	StateCreated   State = "created"
	StateStarted   State = "started"
	StateCompleted State = "completed"
	StateSaved     State = "saved"
	StateStopped   State = "stopped"
)

// etaWindow is how many recent fetch durations feed the ETA estimate.
const etaWindow = 4

// DefaultWorkers is the number of concurrent fetches per task.
const DefaultWorkers = 8

// Fetcher retrieves one certificate record by its portal number.
type Fetcher interface {
	Fetch(ctx context.Context, number int) (*cert.Record, error)
}

// RecordSink receives records as they are downloaded. Optional; a nil
// sink means records are only kept in memory until Save.
type RecordSink interface {
	SaveRecord(ctx context.Context, record *cert.Record) error
}

// Progress is a snapshot of how far a task has gotten.
type Progress struct {
	Current    int           `json:"current"`
	Total      int           `json:"total"`
	Downloaded int           `json:"downloaded"`
	NotFound   int           `json:"not_found"`
	Failed     int           `json:"failed"`
	ETA        time.Duration `json:"eta"`
}

// Percentage calculates progress as a percentage (0-100)
func (p Progress) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// Task downloads one batch of consecutive certificate numbers. Batch n
// covers numbers [size*(n-1), size*n).
type Task struct {
	ID        string
	Batch     int
	BatchSize int
	Workers   int

	fetcher Fetcher
	sink    RecordSink
	log     *zap.SugaredLogger

	// onProgress, if set, is called after every finished number. It
	// runs on worker goroutines and must be fast.
	onProgress func(Progress)

	mu          sync.Mutex
	state       State
	records     []*cert.Record
	downloaded  int
	notFound    int
	failed      int
	recent      []time.Duration
	startedAt   time.Time
	completedAt *time.Time
	cancel      context.CancelFunc
}

// TaskOption configures a Task.
type TaskOption func(*Task)

// WithWorkers overrides the worker count.
func WithWorkers(n int) TaskOption {
	return func(t *Task) {
		if n > 0 {
			t.Workers = n
		}
	}
}

// WithSink persists each record as it is downloaded.
func WithSink(sink RecordSink) TaskOption {
	return func(t *Task) { t.sink = sink }
}

// WithProgress registers a progress callback.
func WithProgress(fn func(Progress)) TaskOption {
	return func(t *Task) { t.onProgress = fn }
}

// NewTask creates a download task for the given batch. Batches are
// numbered from 1.
func NewTask(batch, batchSize int, fetcher Fetcher, log *zap.SugaredLogger, opts ...TaskOption) (*Task, error) {
	if batch < 1 {
		return nil, errors.Newf("batch number must be >= 1, got %d", batch)
	}
	if batchSize < 1 {
		return nil, errors.Newf("batch size must be >= 1, got %d", batchSize)
	}
	if fetcher == nil {
		return nil, errors.New("fetcher cannot be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	task := &Task{
		ID:        uuid.NewString(),
		Batch:     batch,
		BatchSize: batchSize,
		Workers:   DefaultWorkers,
		fetcher:   fetcher,
		log:       log,
		state:     StateCreated,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task, nil
}

// FirstNumber is the lowest certificate number in the batch.
func (t *Task) FirstNumber() int { return t.BatchSize * (t.Batch - 1) }

// State returns the task's current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// StartedAt returns when Run began, zero before that.
func (t *Task) StartedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startedAt
}

// CompletedAt returns when Run finished, nil while running.
func (t *Task) CompletedAt() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completedAt
}

// Records returns the downloaded records in certificate number order.
func (t *Task) Records() []*cert.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*cert.Record, len(t.records))
	copy(out, t.records)
	return out
}

// Run downloads the batch, blocking until every number has been
// attempted or the context is cancelled. It can only be called once.
func (t *Task) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.state != StateCreated {
		state := t.state
		t.mu.Unlock()
		return errors.Newf("task %s already %s", t.ID, state)
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.state = StateStarted
	t.startedAt = time.Now()
	t.mu.Unlock()

	t.log.Infow("Starting batch download",
		"task", t.ID,
		"batch", t.Batch,
		"first", t.FirstNumber(),
		"size", t.BatchSize,
		"workers", t.Workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Workers)

	first := t.FirstNumber()
	for i := 0; i < t.BatchSize; i++ {
		number := first + i
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return t.fetchOne(ctx, number)
		})
	}

	err := g.Wait()

	t.mu.Lock()
	now := time.Now()
	t.completedAt = &now
	if err != nil && errors.IsAny(err, context.Canceled, context.DeadlineExceeded) {
		t.state = StateStopped
	} else {
		t.state = StateCompleted
	}
	downloaded, notFound, failed := t.downloaded, t.notFound, t.failed
	t.mu.Unlock()

	t.log.Infow("Batch download finished",
		"task", t.ID,
		"batch", t.Batch,
		"state", t.State(),
		"downloaded", downloaded,
		"not_found", notFound,
		"failed", failed)

	if err != nil && !errors.IsAny(err, context.Canceled, context.DeadlineExceeded) {
		return errors.Wrapf(err, "batch %d download failed", t.Batch)
	}
	return nil
}

// Stop cancels a running task. Records already downloaded are kept.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (t *Task) fetchOne(ctx context.Context, number int) error {
	start := time.Now()
	record, err := t.fetcher.Fetch(ctx, number)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		if record.HasCURP() {
			if _, _, verr := record.ValidateIdentity(); verr != nil {
				t.log.Debugw("Could not decompose CURP", "number", number, "error", verr)
			}
		}
		if t.sink != nil {
			if serr := t.sink.SaveRecord(ctx, record); serr != nil {
				t.log.Warnw("Failed to persist record", "number", number, "error", serr)
			}
		}
		t.finish(record, elapsed, nil)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.IsNotFoundError(err):
		t.finish(nil, elapsed, err)
	default:
		t.log.Warnw("Failed to download certificate", "number", number, "error", err)
		t.finish(nil, elapsed, err)
	}
	return nil
}

// finish records one completed number under the lock and fires the
// progress callback outside it.
func (t *Task) finish(record *cert.Record, elapsed time.Duration, err error) {
	t.mu.Lock()
	switch {
	case record != nil:
		t.downloaded++
		t.insertRecord(record)
	case errors.IsNotFoundError(err):
		t.notFound++
	default:
		t.failed++
	}
	t.recent = append(t.recent, elapsed)
	if len(t.recent) > etaWindow {
		t.recent = t.recent[len(t.recent)-etaWindow:]
	}
	progress := t.progressLocked()
	t.mu.Unlock()

	if t.onProgress != nil {
		t.onProgress(progress)
	}
}

// insertRecord keeps t.records sorted by certificate number.
func (t *Task) insertRecord(record *cert.Record) {
	i := len(t.records)
	for i > 0 && t.records[i-1].Number > record.Number {
		i--
	}
	t.records = append(t.records, nil)
	copy(t.records[i+1:], t.records[i:])
	t.records[i] = record
}

// Progress returns a snapshot of the task's progress.
func (t *Task) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progressLocked()
}

func (t *Task) progressLocked() Progress {
	current := t.downloaded + t.notFound + t.failed
	p := Progress{
		Current:    current,
		Total:      t.BatchSize,
		Downloaded: t.downloaded,
		NotFound:   t.notFound,
		Failed:     t.failed,
	}
	if len(t.recent) > 0 && current < t.BatchSize {
		var sum time.Duration
		for _, d := range t.recent {
			sum += d
		}
		avg := sum / time.Duration(len(t.recent))
		remaining := t.BatchSize - current
		workers := t.Workers
		if workers < 1 {
			workers = 1
		}
		p.ETA = avg * time.Duration(remaining) / time.Duration(workers)
	}
	return p
}
