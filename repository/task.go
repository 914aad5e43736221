package repository

import (
	"context"

	"github.com/fastygo/tasks/domain"
)

// TaskRepository is the persistence boundary for tasks. Lookups of a
// missing id return domain.ErrTaskNotFound. Implementations own id
// assignment and the created_at/updated_at timestamps.
type TaskRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, fields domain.TaskFields) (*domain.Task, error)
	Update(ctx context.Context, id int64, fields domain.TaskFields) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
