package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/repository"
)

// TasksBucket holds one JSON document per task keyed by big-endian id.
const TasksBucket = "tasks"

type taskRepository struct {
	db     *bbolt.DB
	bucket []byte
	now    func() time.Time
}

// NewTaskRepository returns a BoltDB-backed TaskRepository. The bucket must
// already exist; boltdb.Open creates it.
func NewTaskRepository(db *bbolt.DB) repository.TaskRepository {
	return &taskRepository{
		db:     db,
		bucket: []byte(TasksBucket),
		now:    time.Now,
	}
}

func (r *taskRepository) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		task, err = r.get(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(_ context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	err := r.db.View(func(tx *bbolt.Tx) error {
		return r.tasks(tx).ForEach(func(k, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return fmt.Errorf("decode task %d: %w", decodeKey(k), err)
			}
			tasks = append(tasks, task)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Create(_ context.Context, fields domain.TaskFields) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := r.tasks(tx)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		now := r.now().UTC()
		task = domain.Task{
			ID:        int64(seq),
			CreatedAt: now,
			UpdatedAt: now,
		}
		task.Apply(fields)
		if task.DueDate.IsZero() {
			task.DueDate = domain.DateOf(r.now())
		}
		return r.put(b, &task)
	})
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) Update(_ context.Context, id int64, fields domain.TaskFields) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.Update(func(tx *bbolt.Tx) error {
		var err error
		task, err = r.get(tx, id)
		if err != nil {
			return err
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
		return r.put(r.tasks(tx), task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Delete(_ context.Context, id int64) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := r.tasks(tx)
		key := encodeKey(id)
		if b.Get(key) == nil {
			return domain.ErrTaskNotFound
		}
		return b.Delete(key)
	})
}

func (r *taskRepository) Ping(_ context.Context) error {
	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return bbolt.ErrBucketNotFound
		}
		return nil
	})
}

func (r *taskRepository) tasks(tx *bbolt.Tx) *bbolt.Bucket {
	return tx.Bucket(r.bucket)
}

func (r *taskRepository) get(tx *bbolt.Tx, id int64) (*domain.Task, error) {
	if id <= 0 {
		return nil, domain.ErrTaskNotFound
	}
	data := r.tasks(tx).Get(encodeKey(id))
	if data == nil {
		return nil, domain.ErrTaskNotFound
	}
	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("decode task %d: %w", id, err)
	}
	return &task, nil
}

func (r *taskRepository) put(b *bbolt.Bucket, task *domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return b.Put(encodeKey(task.ID), payload)
}

func encodeKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func decodeKey(key []byte) int64 {
	if len(key) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(key))
}
