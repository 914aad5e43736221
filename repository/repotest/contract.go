// Package repotest holds the behaviour every TaskRepository driver must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/repository"
)

// Factory returns a fresh, empty repository for one subtest.
type Factory func(t *testing.T) repository.TaskRepository

func ptr[T any](v T) *T { return &v }

// Run exercises the TaskRepository contract against newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		est := domain.HoursFromCents(150)
		created, err := repo.Create(ctx, domain.TaskFields{
			Title:         ptr("Write report"),
			Description:   ptr("quarterly"),
			DueDate:       domain.NewDate(2026, time.October, 20),
			Status:        ptr("to do"),
			EstimatedTime: &est,
		})
		require.NoError(t, err)
		assert.Positive(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.Before(created.CreatedAt))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write report", *got.Title)
		assert.Equal(t, "quarterly", *got.Description)
		assert.Equal(t, "2026-10-20", got.DueDate.String())
		assert.Equal(t, "to do", *got.Status)
		require.NotNil(t, got.EstimatedTime)
		assert.Equal(t, "1.50", got.EstimatedTime.String())
	})

	t.Run("nullable fields stay null", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, domain.TaskFields{DueDate: domain.NewDate(2026, time.January, 2)})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Title)
		assert.Nil(t, got.Description)
		assert.Nil(t, got.Status)
		assert.Nil(t, got.EstimatedTime)
	})

	t.Run("get missing id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		repo := newRepo(t)
		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)

		for _, title := range []string{"a", "b", "c"} {
			_, err := repo.Create(ctx, domain.TaskFields{Title: ptr(title), DueDate: domain.NewDate(2026, time.May, 1)})
			require.NoError(t, err)
		}
		tasks, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, "a", *tasks[0].Title)
		assert.Equal(t, "c", *tasks[2].Title)
		assert.Less(t, tasks[0].ID, tasks[1].ID)
		assert.Less(t, tasks[1].ID, tasks[2].ID)
	})

	t.Run("update replaces fields and keeps created_at", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, domain.TaskFields{
			Title:   ptr("old"),
			Status:  ptr("to do"),
			DueDate: domain.NewDate(2026, time.March, 3),
		})
		require.NoError(t, err)

		est := domain.HoursFromCents(200)
		updated, err := repo.Update(ctx, created.ID, domain.TaskFields{
			Title:         ptr("new"),
			DueDate:       domain.NewDate(2026, time.March, 4),
			EstimatedTime: &est,
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "new", *updated.Title)
		assert.Nil(t, updated.Status)
		assert.Equal(t, "2026-03-04", updated.DueDate.String())
		assert.Equal(t, "2.00", updated.EstimatedTime.String())
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "created_at changed")
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", *got.Title)
	})

	t.Run("update missing id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Update(ctx, 42, domain.TaskFields{DueDate: domain.NewDate(2026, time.March, 4)})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("delete is final and ids are not reused", func(t *testing.T) {
		repo := newRepo(t)
		first, err := repo.Create(ctx, domain.TaskFields{DueDate: domain.NewDate(2026, time.June, 1)})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, first.ID))
		_, err = repo.GetByID(ctx, first.ID)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, first.ID), domain.ErrTaskNotFound)

		second, err := repo.Create(ctx, domain.TaskFields{DueDate: domain.NewDate(2026, time.June, 2)})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(ctx))
	})
}
