//go:build integration

package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
	"github.com/adanyl0v/go-todo-tasks/internal/storage"
)

var deadline = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestUserRepository(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	newRepo := func(t *testing.T, name string, optimisticLocking bool) *UserRepository {
		repo := NewUserRepository(db, name, optimisticLocking)
		require.NoError(t, repo.EnsureIndexes(ctx))
		return repo
	}

	seed := func(t *testing.T, repo *UserRepository) *models.User {
		user := models.NewUser("alice", "alice@example.com")
		task := models.NewTask("first", deadline, models.StatusPending)
		task.Subtasks = append(task.Subtasks,
			models.NewSubtask("a", deadline, models.StatusPending),
			models.NewSubtask("b", deadline, models.StatusInProgress),
		)
		other := models.NewTask("second", deadline, models.StatusCompleted)
		other.Subtasks = append(other.Subtasks, models.NewSubtask("c", deadline, models.StatusPending))
		user.Tasks = append(user.Tasks, task, other)
		require.NoError(t, repo.InsertUser(ctx, user))
		return user
	}

	t.Run("insert and get", func(t *testing.T) {
		repo := newRepo(t, "insert_get", false)
		seeded := seed(t, repo)

		user, err := repo.GetUserByEmail(ctx, seeded.Email)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
		require.Len(t, user.Tasks, 2)
		assert.True(t, deadline.Equal(user.Tasks[0].Deadline))
		assert.Equal(t, "b", user.Tasks[0].Subtasks[1].Subject)

		_, err = repo.GetUserByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newRepo(t, "duplicate", false)
		seed(t, repo)

		err := repo.InsertUser(ctx, models.NewUser("alice again", "alice@example.com"))
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("save with and without locking", func(t *testing.T) {
		repo := newRepo(t, "save_plain", false)
		seed(t, repo)

		first, _ := repo.GetUserByEmail(ctx, "alice@example.com")
		second, _ := repo.GetUserByEmail(ctx, "alice@example.com")
		first.Tasks[0].Subject = "from first"
		require.NoError(t, repo.SaveUser(ctx, first))
		second.Tasks[0].Subject = "from second"
		require.NoError(t, repo.SaveUser(ctx, second))

		stored, _ := repo.GetUserByEmail(ctx, "alice@example.com")
		assert.Equal(t, "from second", stored.Tasks[0].Subject)

		locked := newRepo(t, "save_locked", true)
		seed(t, locked)

		first, _ = locked.GetUserByEmail(ctx, "alice@example.com")
		second, _ = locked.GetUserByEmail(ctx, "alice@example.com")
		first.Tasks[0].Subject = "from first"
		require.NoError(t, locked.SaveUser(ctx, first))
		second.Tasks[0].Subject = "from second"
		assert.ErrorIs(t, locked.SaveUser(ctx, second), storage.ErrVersionConflict)

		err := locked.SaveUser(ctx, models.NewUser("ghost", "ghost@example.com"))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("push subtask", func(t *testing.T) {
		repo := newRepo(t, "push", false)
		seeded := seed(t, repo)

		user, err := repo.PushSubtask(ctx, seeded.Email, seeded.Tasks[1].ID,
			models.NewSubtask("d", deadline, models.StatusCompleted))
		require.NoError(t, err)
		require.Len(t, user.Tasks[1].Subtasks, 2)
		assert.Equal(t, "d", user.Tasks[1].Subtasks[1].Subject)
		assert.Len(t, user.Tasks[0].Subtasks, 2)

		_, err = repo.PushSubtask(ctx, seeded.Email, primitive.NewObjectID(),
			models.NewSubtask("e", deadline, models.StatusPending))
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = repo.PushSubtask(ctx, seeded.Email, seeded.Tasks[1].ID,
			models.NewSubtask("e", deadline, "archived"))
		assert.ErrorIs(t, err, storage.ErrInvalidDocument)
	})

	t.Run("mark deleted", func(t *testing.T) {
		repo := newRepo(t, "mark_deleted", false)
		seeded := seed(t, repo)
		taskID := seeded.Tasks[0].ID
		subtaskID := seeded.Tasks[0].Subtasks[1].ID

		user, err := repo.MarkSubtaskDeleted(ctx, seeded.Email, taskID, subtaskID)
		require.NoError(t, err)
		assert.False(t, user.Tasks[0].Subtasks[0].IsDeleted)
		assert.True(t, user.Tasks[0].Subtasks[1].IsDeleted)

		// The subtask has to belong to the given task.
		_, err = repo.MarkSubtaskDeleted(ctx, seeded.Email, seeded.Tasks[1].ID, subtaskID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		for range 2 {
			user, err = repo.MarkTaskDeleted(ctx, seeded.Email, taskID)
			require.NoError(t, err)
			assert.True(t, user.Tasks[0].IsDeleted)
			assert.False(t, user.Tasks[1].IsDeleted)
			assert.False(t, user.Tasks[0].Subtasks[0].IsDeleted)
		}

		_, err = repo.MarkTaskDeleted(ctx, "missing@example.com", taskID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newRepo(t, "ping", false).Ping(ctx))
	})
}
