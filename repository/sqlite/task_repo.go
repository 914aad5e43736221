package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/repository"
)

// AUTOINCREMENT keeps SQLite from handing out the id of a deleted row again.
const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	title          VARCHAR(255),
	description    TEXT,
	due_date       VARCHAR(10) NOT NULL,
	status         VARCHAR(30),
	estimated_time INTEGER,
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
)`

// taskRecord is the row shape; estimated_time is stored in hundredths.
type taskRecord struct {
	ID            int64 `gorm:"primaryKey;autoIncrement"`
	Title         *string
	Description   *string
	DueDate       string
	Status        *string
	EstimatedTime *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (taskRecord) TableName() string {
	return "tasks"
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository returns a gorm/SQLite TaskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

// Migrate creates the tasks table when it does not exist.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(createTasksTable).Error; err != nil {
		return fmt.Errorf("migrate tasks table: %w", err)
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var rec taskRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return rec.toDomain()
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	var recs []taskRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(recs))
	for _, rec := range recs {
		task, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	now := r.db.NowFunc()
	if fields.DueDate.IsZero() {
		fields.DueDate = domain.DateOf(time.Now())
	}
	rec := taskRecord{CreatedAt: now, UpdatedAt: now}
	rec.apply(fields)

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return rec.toDomain()
}

func (r *taskRepository) Update(ctx context.Context, id int64, fields domain.TaskFields) (*domain.Task, error) {
	var rec taskRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTaskNotFound
			}
			return err
		}
		dueDate := rec.DueDate
		rec.apply(fields)
		if rec.DueDate == "" {
			rec.DueDate = dueDate
		}
		rec.UpdatedAt = r.db.NowFunc()
		if rec.UpdatedAt.Before(rec.CreatedAt) {
			rec.UpdatedAt = rec.CreatedAt
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return rec.toDomain()
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&taskRecord{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (rec *taskRecord) apply(f domain.TaskFields) {
	rec.Title = f.Title
	rec.Description = f.Description
	rec.DueDate = f.DueDate.String()
	rec.Status = f.Status
	rec.EstimatedTime = nil
	if f.EstimatedTime != nil {
		v := f.EstimatedTime.Cents()
		rec.EstimatedTime = &v
	}
}

func (rec taskRecord) toDomain() (*domain.Task, error) {
	due, err := domain.ParseDate(rec.DueDate)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", rec.ID, err)
	}
	task := &domain.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		DueDate:     due,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt.UTC(),
		UpdatedAt:   rec.UpdatedAt.UTC(),
	}
	if rec.EstimatedTime != nil {
		h := domain.HoursFromCents(*rec.EstimatedTime)
		task.EstimatedTime = &h
	}
	return task, nil
}
