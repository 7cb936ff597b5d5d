package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
	"github.com/adanyl0v/go-todo-tasks/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	users  storage.UserRepository
}

func NewTaskService(
	logger zerolog.Logger,
	users storage.UserRepository,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		users:  users,
	}
}

func (s *taskServiceImpl) AddTask(ctx context.Context, params AddTaskParams) (*models.Task, error) {
	err := requireFields(
		"subject", params.Subject,
		"deadline", params.Deadline,
		"status", params.Status,
		"email", params.Email,
	)
	if err != nil {
		return nil, err
	}

	deadline, err := parseDeadline(params.Deadline)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(params.Status)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, params.Email)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, "", "failed to select user by email")
		return nil, translateStorageError(err, ErrUserNotFound)
	}
	s.logger.Debug().
		Str("user_id", user.ID.Hex()).
		Int("tasks", len(user.Tasks)).
		Msg("selected user")

	user.Tasks = append(user.Tasks, models.NewTask(params.Subject, deadline, status))
	err = s.users.SaveUser(ctx, user)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, "", "failed to save user")
		return nil, translateStorageError(err, ErrUserNotFound)
	}

	task := user.Tasks[len(user.Tasks)-1]
	s.logger.Info().
		Str("email", params.Email).
		Str("task_id", task.ID.Hex()).
		Msg("created task")
	return &task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, email string) ([]models.Task, error) {
	err := requireFields("email", email)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		logStorageFailure(s.logger, err, email, "", "failed to select user by email")
		return nil, translateStorageError(err, ErrNoActiveTasks)
	}

	tasks := user.ActiveTasks()
	if len(tasks) == 0 {
		s.logger.Info().
			Str("email", email).
			Msg("no tasks found")
		return nil, ErrNoActiveTasks
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Str("email", email).
		Msg("tasks found")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	err := requireFields(
		"email", params.Email,
		"taskId", params.TaskID,
		"subject", params.Subject,
		"deadline", params.Deadline,
		"status", params.Status,
	)
	if err != nil {
		return nil, err
	}

	taskID, err := parseID("taskId", params.TaskID)
	if err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(params.Deadline)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(params.Status)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, params.Email)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, params.TaskID, "failed to select user by email")
		return nil, translateStorageError(err, ErrUserNotFound)
	}

	task := user.TaskByID(taskID)
	if task == nil {
		s.logger.Error().
			Str("email", params.Email).
			Str("task_id", params.TaskID).
			Msg("task not found")
		return nil, ErrTaskNotFound
	}
	if task.IsDeleted {
		s.logger.Error().
			Str("email", params.Email).
			Str("task_id", params.TaskID).
			Msg("task is deleted")
		return nil, ErrTaskDoesNotExist
	}

	task.Subject = params.Subject
	task.Deadline = deadline
	task.Status = status

	err = s.users.SaveUser(ctx, user)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, params.TaskID, "failed to save user")
		return nil, translateStorageError(err, ErrUserNotFound)
	}

	updated := *task
	updated.Subtasks = task.ActiveSubtasks()

	s.logger.Info().
		Str("email", params.Email).
		Str("task_id", params.TaskID).
		Msg("updated task")
	return &updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) (*models.User, error) {
	err := requireFields(
		"taskId", params.TaskID,
		"email", params.Email,
	)
	if err != nil {
		return nil, err
	}

	taskID, err := parseID("taskId", params.TaskID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.MarkTaskDeleted(ctx, params.Email, taskID)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, params.TaskID, "failed to mark task deleted")
		return nil, translateStorageError(err, ErrUserOrTaskNotFound)
	}

	s.logger.Info().
		Str("email", params.Email).
		Str("task_id", params.TaskID).
		Msg("deleted task")
	return user, nil
}

// logStorageFailure logs storage not-found results as warnings and
// anything else as errors.
func logStorageFailure(logger zerolog.Logger, err error, email, taskID, msg string) {
	event := logger.Error()
	if errors.Is(err, storage.ErrNotFound) {
		event = logger.Warn()
	}

	event = event.Err(err).Str("email", email)
	if taskID != "" {
		event = event.Str("task_id", taskID)
	}
	event.Msg(msg)
}
