package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrVersionConflict = errors.New("document version conflict")
	ErrInvalidDocument = errors.New("invalid document")
)

// UserRepository persists user documents with their embedded
// tasks and subtasks.
//
// Methods returning *models.User return the document as it is
// after the write. Lookups that match nothing return ErrNotFound.
type UserRepository interface {
	// InsertUser stores a new user. It returns ErrDuplicateKey
	// if a user with the same email already exists.
	InsertUser(ctx context.Context, user *models.User) error

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// SaveUser replaces the whole document and bumps its version.
	// With optimistic locking enabled the write only happens if the
	// stored version equals user.Version, otherwise it returns
	// ErrVersionConflict.
	SaveUser(ctx context.Context, user *models.User) error

	// PushSubtask appends the subtask to the task in a single
	// atomic update.
	PushSubtask(ctx context.Context, email string, taskID primitive.ObjectID, subtask models.Subtask) (*models.User, error)

	// MarkTaskDeleted sets the isDeleted flag of the task in place.
	MarkTaskDeleted(ctx context.Context, email string, taskID primitive.ObjectID) (*models.User, error)

	// MarkSubtaskDeleted sets the isDeleted flag of the subtask
	// that belongs to the given task.
	MarkSubtaskDeleted(ctx context.Context, email string, taskID, subtaskID primitive.ObjectID) (*models.User, error)

	Ping(ctx context.Context) error
}
