package memory

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

func seedUser(t *testing.T, repo *UserRepository) *models.User {
	t.Helper()

	user := models.NewUser("alice", "alice@example.com")
	task := models.NewTask("first", deadline, models.StatusPending)
	task.Subtasks = append(task.Subtasks, models.NewSubtask("a", deadline, models.StatusPending))
	user.Tasks = append(user.Tasks, task)

	require.NoError(t, repo.InsertUser(context.Background(), user))
	return user
}

func TestUserRepository_InsertUser(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(false)
	seedUser(t, repo)

	err := repo.InsertUser(ctx, models.NewUser("other", "alice@example.com"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	invalid := models.NewUser("bob", "bob@example.com")
	invalid.Tasks = append(invalid.Tasks, models.NewTask("x", deadline, "archived"))
	err = repo.InsertUser(ctx, invalid)
	assert.ErrorIs(t, err, storage.ErrInvalidDocument)
}

func TestUserRepository_GetUserByEmail_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(false)
	seedUser(t, repo)

	user, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	user.Tasks[0].Subject = "changed"
	user.Tasks[0].Subtasks[0].Subject = "changed"

	again, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "first", again.Tasks[0].Subject)
	assert.Equal(t, "a", again.Tasks[0].Subtasks[0].Subject)

	_, err = repo.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepository_SaveUser(t *testing.T) {
	ctx := context.Background()

	t.Run("last write wins without locking", func(t *testing.T) {
		repo := NewUserRepository(false)
		seedUser(t, repo)

		first, _ := repo.GetUserByEmail(ctx, "alice@example.com")
		second, _ := repo.GetUserByEmail(ctx, "alice@example.com")

		first.Tasks[0].Subject = "from first"
		require.NoError(t, repo.SaveUser(ctx, first))
		second.Tasks[0].Subject = "from second"
		require.NoError(t, repo.SaveUser(ctx, second))

		stored, _ := repo.GetUserByEmail(ctx, "alice@example.com")
		assert.Equal(t, "from second", stored.Tasks[0].Subject)
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("stale version rejected with locking", func(t *testing.T) {
		repo := NewUserRepository(true)
		seedUser(t, repo)

		first, _ := repo.GetUserByEmail(ctx, "alice@example.com")
		second, _ := repo.GetUserByEmail(ctx, "alice@example.com")

		first.Tasks[0].Subject = "from first"
		require.NoError(t, repo.SaveUser(ctx, first))
		second.Tasks[0].Subject = "from second"
		assert.ErrorIs(t, repo.SaveUser(ctx, second), storage.ErrVersionConflict)

		stored, _ := repo.GetUserByEmail(ctx, "alice@example.com")
		assert.Equal(t, "from first", stored.Tasks[0].Subject)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := NewUserRepository(false)
		err := repo.SaveUser(ctx, models.NewUser("ghost", "ghost@example.com"))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestUserRepository_AtomicUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(false)
	seeded := seedUser(t, repo)
	taskID := seeded.Tasks[0].ID
	subtaskID := seeded.Tasks[0].Subtasks[0].ID

	user, err := repo.PushSubtask(ctx, seeded.Email, taskID, models.NewSubtask("b", deadline, models.StatusCompleted))
	require.NoError(t, err)
	require.Len(t, user.Tasks[0].Subtasks, 2)
	assert.Equal(t, "b", user.Tasks[0].Subtasks[1].Subject)

	_, err = repo.PushSubtask(ctx, seeded.Email, primitive.NewObjectID(), models.NewSubtask("c", deadline, models.StatusPending))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	user, err = repo.MarkSubtaskDeleted(ctx, seeded.Email, taskID, subtaskID)
	require.NoError(t, err)
	assert.True(t, user.Tasks[0].Subtasks[0].IsDeleted)

	_, err = repo.MarkSubtaskDeleted(ctx, seeded.Email, taskID, primitive.NewObjectID())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	user, err = repo.MarkTaskDeleted(ctx, seeded.Email, taskID)
	require.NoError(t, err)
	assert.True(t, user.Tasks[0].IsDeleted)
	assert.False(t, user.Tasks[0].Subtasks[1].IsDeleted)

	_, err = repo.MarkTaskDeleted(ctx, "missing@example.com", taskID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
