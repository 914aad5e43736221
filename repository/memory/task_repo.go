// Package memory keeps tasks in process memory. It backs the test suite and
// STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/repository"
)

type taskRepository struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]*domain.Task
	now    func() time.Time
}

// Option customises the in-memory repository.
type Option func(*taskRepository)

// WithClock replaces time.Now as the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *taskRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewTaskRepository returns an empty in-memory TaskRepository.
func NewTaskRepository(opts ...Option) repository.TaskRepository {
	r := &taskRepository{
		nextID: 1,
		tasks:  make(map[int64]*domain.Task),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *taskRepository) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (r *taskRepository) List(_ context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, *task.Clone())
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (r *taskRepository) Create(_ context.Context, fields domain.TaskFields) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	task := &domain.Task{
		ID:        r.nextID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	task.Apply(fields)
	if task.DueDate.IsZero() {
		task.DueDate = domain.DateOf(r.now())
	}
	r.nextID++
	r.tasks[task.ID] = task
	return task.Clone(), nil
}

func (r *taskRepository) Update(_ context.Context, id int64, fields domain.TaskFields) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	dueDate := task.DueDate
	task.Apply(fields)
	if task.DueDate.IsZero() {
		task.DueDate = dueDate
	}
	task.UpdatedAt = r.now().UTC()
	if task.UpdatedAt.Before(task.CreatedAt) {
		task.UpdatedAt = task.CreatedAt
	}
	return task.Clone(), nil
}

func (r *taskRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *taskRepository) Ping(context.Context) error {
	return nil
}
