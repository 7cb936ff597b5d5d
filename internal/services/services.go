package services

import (
	"context"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
)

type UserService interface {
	// RegisterUser creates a user with an empty task list.
	//
	// It returns ErrUserAlreadyExists if a user with the
	// given email is already registered.
	RegisterUser(ctx context.Context, params RegisterUserParams) (*models.User, error)
}

type TaskService interface {
	// AddTask appends a new task to the user's task list and
	// returns it with its generated ID.
	AddTask(ctx context.Context, params AddTaskParams) (*models.Task, error)

	// ListTasks returns the tasks that are not deleted, each with
	// its non-deleted subtasks only.
	//
	// It returns ErrNoActiveTasks if the user doesn't exist
	// or has no such tasks.
	ListTasks(ctx context.Context, email string) ([]models.Task, error)

	// UpdateTask overwrites the subject, deadline and status of the task.
	// The returned task lists its non-deleted subtasks only.
	//
	// It returns ErrTaskDoesNotExist if the task is deleted.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask marks the task as deleted and returns the user.
	// Deleting an already deleted task succeeds.
	DeleteTask(ctx context.Context, params DeleteTaskParams) (*models.User, error)
}

type SubtaskService interface {
	// AddSubtask appends a subtask to the task and returns
	// the user's whole task list.
	AddSubtask(ctx context.Context, params AddSubtaskParams) ([]models.Task, error)

	// ListSubtasks returns the non-deleted subtasks of the task, even
	// if the task itself is deleted.
	//
	// It returns ErrNoActiveSubtasks if the user or the task doesn't
	// exist or the task has no such subtasks.
	ListSubtasks(ctx context.Context, params ListSubtasksParams) ([]models.Subtask, error)

	// ReplaceSubtasks replaces the subtasks of the task with the given
	// list. Deleted subtasks are kept after the new ones. It returns
	// the given list, not the stored one.
	ReplaceSubtasks(ctx context.Context, params ReplaceSubtasksParams) ([]models.Subtask, error)

	// DeleteSubtask marks the subtask as deleted and returns the user.
	DeleteSubtask(ctx context.Context, params DeleteSubtaskParams) (*models.User, error)
}

type RegisterUserParams struct {
	Name  string
	Email string
}

type AddTaskParams struct {
	Email    string
	Subject  string
	Deadline string
	Status   string
}

type UpdateTaskParams struct {
	Email    string
	TaskID   string
	Subject  string
	Deadline string
	Status   string
}

type DeleteTaskParams struct {
	Email  string
	TaskID string
}

type AddSubtaskParams struct {
	Email    string
	TaskID   string
	Subject  string
	Deadline string
	Status   string
}

type ListSubtasksParams struct {
	Email  string
	TaskID string
}

type ReplaceSubtasksParams struct {
	Email  string
	TaskID string
	// Subtasks is nil when the list is missing from the request.
	Subtasks []SubtaskInput
}

type SubtaskInput struct {
	// ID is optional, a new one is generated when it is empty.
	ID        string
	Subject   string
	Deadline  string
	Status    string
	IsDeleted bool
}

type DeleteSubtaskParams struct {
	Email     string
	TaskID    string
	SubtaskID string
}
