package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/repository"
)

// estimated_time travels as hundredths so NUMERIC never round-trips through float.
const taskColumns = `id, title, description, due_date, status, (estimated_time * 100)::bigint, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	query := `
	INSERT INTO tasks (title, description, due_date, status, estimated_time)
	VALUES ($1, $2, COALESCE($3::date, CURRENT_DATE), $4, $5::bigint::numeric / 100)
	RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query,
		fields.Title,
		fields.Description,
		dueDate(fields.DueDate),
		fields.Status,
		cents(fields.EstimatedTime),
	))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, id int64, fields domain.TaskFields) (*domain.Task, error) {
	query := `
	UPDATE tasks
	SET title = $2,
		description = $3,
		due_date = COALESCE($4::date, due_date),
		status = $5,
		estimated_time = $6::bigint::numeric / 100,
		updated_at = GREATEST(NOW(), created_at)
	WHERE id = $1
	RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query,
		id,
		fields.Title,
		fields.Description,
		dueDate(fields.DueDate),
		fields.Status,
		cents(fields.EstimatedTime),
	))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task     domain.Task
		due      time.Time
		estimate *int64
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&due,
		&task.Status,
		&estimate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = domain.DateOf(due)
	if estimate != nil {
		h := domain.HoursFromCents(*estimate)
		task.EstimatedTime = &h
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}
