package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/pkg/logger"
	"github.com/fastygo/tasks/repository"
)

// UseCase applies task operations against the configured store.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx)
	if err != nil {
		uc.log(ctx).Error("list tasks failed", zap.Error(err))
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (uc *UseCase) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

func (uc *UseCase) CreateTask(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	created, err := uc.tasks.Create(ctx, fields)
	if err != nil {
		uc.log(ctx).Error("create task failed", zap.Error(err))
		return nil, err
	}
	uc.log(ctx).Info("task created", zap.Int64("task_id", created.ID))
	return created, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, id int64, fields domain.TaskFields) (*domain.Task, error) {
	updated, err := uc.tasks.Update(ctx, id, fields)
	if err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.log(ctx).Error("update task failed", zap.Int64("task_id", id), zap.Error(err))
		}
		return nil, err
	}
	uc.log(ctx).Info("task updated", zap.Int64("task_id", id))
	return updated, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id int64) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.log(ctx).Error("delete task failed", zap.Int64("task_id", id), zap.Error(err))
		}
		return err
	}
	uc.log(ctx).Info("task deleted", zap.Int64("task_id", id))
	return nil
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return logger.WithRequestID(ctx, uc.logger)
}
