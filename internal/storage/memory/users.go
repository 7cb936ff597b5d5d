// Package memory keeps user documents in process memory. It is meant
// for local runs and tests, data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
	"github.com/adanyl0v/go-todo-tasks/internal/storage"
)

type UserRepository struct {
	mu                sync.RWMutex
	users             map[string]*models.User // by email
	optimisticLocking bool
}

var _ storage.UserRepository = (*UserRepository)(nil)

func NewUserRepository(optimisticLocking bool) *UserRepository {
	return &UserRepository{
		users:             make(map[string]*models.User),
		optimisticLocking: optimisticLocking,
	}
}

func (r *UserRepository) InsertUser(_ context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidDocument, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Email]; exists {
		return fmt.Errorf("%w: email %q", storage.ErrDuplicateKey, user.Email)
	}
	r.users[user.Email] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *UserRepository) SaveUser(_ context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidDocument, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.Email]
	if !ok || stored.ID != user.ID {
		return storage.ErrNotFound
	}
	if r.optimisticLocking && stored.Version != user.Version {
		return storage.ErrVersionConflict
	}

	user.Version = stored.Version + 1
	r.users[user.Email] = cloneUser(user)
	return nil
}

func (r *UserRepository) PushSubtask(
	_ context.Context,
	email string,
	taskID primitive.ObjectID,
	subtask models.Subtask,
) (*models.User, error) {
	if err := subtask.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidDocument, err)
	}

	return r.update(email, func(user *models.User) bool {
		task := user.TaskByID(taskID)
		if task == nil {
			return false
		}
		task.Subtasks = append(task.Subtasks, subtask)
		return true
	})
}

func (r *UserRepository) MarkTaskDeleted(_ context.Context, email string, taskID primitive.ObjectID) (*models.User, error) {
	return r.update(email, func(user *models.User) bool {
		task := user.TaskByID(taskID)
		if task == nil {
			return false
		}
		task.IsDeleted = true
		return true
	})
}

func (r *UserRepository) MarkSubtaskDeleted(
	_ context.Context,
	email string,
	taskID, subtaskID primitive.ObjectID,
) (*models.User, error) {
	return r.update(email, func(user *models.User) bool {
		task := user.TaskByID(taskID)
		if task == nil {
			return false
		}
		subtask := task.SubtaskByID(subtaskID)
		if subtask == nil {
			return false
		}
		subtask.IsDeleted = true
		return true
	})
}

func (r *UserRepository) Ping(context.Context) error {
	return nil
}

// update applies fn to the stored document under the write lock.
// fn reports whether the document matched.
func (r *UserRepository) update(email string, fn func(user *models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if !ok || !fn(user) {
		return nil, storage.ErrNotFound
	}
	user.Version++
	return cloneUser(user), nil
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.Tasks = make([]models.Task, len(user.Tasks))
	for i, task := range user.Tasks {
		task.Subtasks = append([]models.Subtask{}, task.Subtasks...)
		clone.Tasks[i] = task
	}
	return &clone
}
