package download

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sanjacob/kangaroo/errors"
)

// Manager tracks live download tasks and refuses to run the same batch
// twice at once.
type Manager struct {
	log *zap.SugaredLogger

	mu    sync.Mutex
	tasks map[int]*Task
}

// NewManager creates a task manager.
func NewManager(log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		log:   log,
		tasks: make(map[int]*Task),
	}
}

// Run registers the task, runs it to completion, and deregisters it.
// A batch that is already running is rejected with ErrTaskExists.
func (m *Manager) Run(ctx context.Context, task *Task) error {
	m.mu.Lock()
	if existing, ok := m.tasks[task.Batch]; ok {
		m.mu.Unlock()
		return errors.Wrapf(errors.ErrTaskExists, "batch %d is already running as task %s", task.Batch, existing.ID)
	}
	m.tasks[task.Batch] = task
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.tasks, task.Batch)
		m.mu.Unlock()
	}()

	return task.Run(ctx)
}

// Get returns the running task for a batch, if any.
func (m *Manager) Get(batch int) (*Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[batch]
	return task, ok
}

// Running returns how many tasks are currently registered.
func (m *Manager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// StopAll cancels every running task. Used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	tasks := make([]*Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, task)
	}
	m.mu.Unlock()

	for _, task := range tasks {
		m.log.Infow("Stopping task", "task", task.ID, "batch", task.Batch)
		task.Stop()
	}
}
