package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	sqliteInfra "github.com/fastygo/tasks/internal/infrastructure/sqlite"
	"github.com/fastygo/tasks/repository"
	"github.com/fastygo/tasks/repository/repotest"
)

func TestTaskRepositoryContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.TaskRepository {
		db, err := sqliteInfra.Open(filepath.Join(t.TempDir(), "tasks.sqlite"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = sqliteInfra.Close(db) })
		require.NoError(t, Migrate(db))
		return NewTaskRepository(db)
	})
}
