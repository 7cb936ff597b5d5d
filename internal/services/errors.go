package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
	"github.com/adanyl0v/go-todo-tasks/internal/storage"
)

// Error kinds. Every error returned by the services wraps
// exactly one of them, except unexpected storage failures.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrMissingFields      = newError(ErrValidation, "all fields are required")
	ErrInvalidDeadline    = newError(ErrValidation, "invalid date format")
	ErrInvalidTaskStatus  = newError(ErrValidation, "invalid task status")
	ErrInvalidID          = newError(ErrValidation, "invalid id")
	ErrInvalidSubtaskList = newError(ErrValidation, "subtaskList must be an array")
	ErrInvalidDocument    = newError(ErrValidation, "invalid document")

	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrTaskNotFound       = newError(ErrNotFound, "task not found")
	ErrTaskDoesNotExist   = newError(ErrNotFound, "task does not exist")
	ErrUserOrTaskNotFound = newError(ErrNotFound, "user or task not found")
	ErrSubtaskNotFound    = newError(ErrNotFound, "user or task or subtask not found")
	ErrNoActiveTasks      = newError(ErrNotFound, "user not found or no tasks available")
	ErrNoActiveSubtasks   = newError(ErrNotFound, "user not found or no subtasks available")

	ErrUserAlreadyExists = newError(ErrConflict, "user already exists")
	ErrConcurrentUpdate  = newError(ErrConflict, "user was modified concurrently")
)

type serviceError struct {
	kind    error
	message string
}

func newError(kind error, message string) error {
	return &serviceError{kind: kind, message: message}
}

func (e *serviceError) Error() string {
	return e.message
}

func (e *serviceError) Unwrap() error {
	return e.kind
}

// requireFields returns ErrMissingFields naming the first empty field.
// Pairs are name, value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s", ErrMissingFields, pairs[i])
		}
	}
	return nil
}

func parseDeadline(value string) (time.Time, error) {
	deadline, err := models.ParseDeadline(value)
	if err != nil {
		return time.Time{}, ErrInvalidDeadline
	}
	return deadline, nil
}

func parseStatus(value string) (models.TaskStatus, error) {
	status := models.TaskStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, value)
	}
	return status, nil
}

func parseID(name, value string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidID, name)
	}
	return id, nil
}

// translateStorageError maps storage sentinels onto service errors.
// notFound is used for storage.ErrNotFound. Other errors are returned
// as is and end up as internal errors.
func translateStorageError(err, notFound error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return notFound
	case errors.Is(err, storage.ErrDuplicateKey):
		return ErrUserAlreadyExists
	case errors.Is(err, storage.ErrVersionConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, storage.ErrInvalidDocument):
		detail := strings.TrimPrefix(err.Error(), storage.ErrInvalidDocument.Error())
		return fmt.Errorf("%w%s", ErrInvalidDocument, detail)
	default:
		return err
	}
}
