package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/repository"
)

// cachedTaskRepository keeps single-task reads in Redis in front of another
// TaskRepository. The wrapped store stays the source of truth: cache errors
// are logged and the call falls through.
type cachedTaskRepository struct {
	next   repository.TaskRepository
	client *redislib.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTaskRepository wraps next with a cache-aside layer for GetByID.
func NewCachedTaskRepository(next repository.TaskRepository, client *redislib.Client, ttl time.Duration, logger *zap.Logger) repository.TaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedTaskRepository{
		next:   next,
		client: client,
		prefix: "task:",
		ttl:    ttl,
		logger: logger,
	}
}

func (r *cachedTaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if task, ok := r.load(ctx, id); ok {
		return task, nil
	}

	task, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, task)
	return task, nil
}

func (r *cachedTaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	return r.next.List(ctx)
}

func (r *cachedTaskRepository) Create(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	return r.next.Create(ctx, fields)
}

func (r *cachedTaskRepository) Update(ctx context.Context, id int64, fields domain.TaskFields) (*domain.Task, error) {
	task, err := r.next.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			r.evict(ctx, id)
		}
		return nil, err
	}
	r.store(ctx, task)
	return task, nil
}

func (r *cachedTaskRepository) Delete(ctx context.Context, id int64) error {
	err := r.next.Delete(ctx, id)
	r.evict(ctx, id)
	return err
}

func (r *cachedTaskRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *cachedTaskRepository) load(ctx context.Context, id int64) (*domain.Task, bool) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redislib.Nil) {
			r.logger.Warn("task cache read failed", zap.Int64("task_id", id), zap.Error(err))
		}
		return nil, false
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		r.logger.Warn("task cache entry corrupt", zap.Int64("task_id", id), zap.Error(err))
		r.evict(ctx, id)
		return nil, false
	}
	return &task, true
}

func (r *cachedTaskRepository) store(ctx context.Context, task *domain.Task) {
	payload, err := json.Marshal(task)
	if err != nil {
		r.logger.Warn("task cache encode failed", zap.Int64("task_id", task.ID), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.key(task.ID), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("task cache write failed", zap.Int64("task_id", task.ID), zap.Error(err))
	}
}

func (r *cachedTaskRepository) evict(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		r.logger.Warn("task cache evict failed", zap.Int64("task_id", id), zap.Error(err))
	}
}

func (r *cachedTaskRepository) key(id int64) string {
	return fmt.Sprintf("%s%d", r.prefix, id)
}
