package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
	"github.com/adanyl0v/go-todo-tasks/internal/storage"
)

type subtaskServiceImpl struct {
	logger zerolog.Logger
	users  storage.UserRepository
}

func NewSubtaskService(
	logger zerolog.Logger,
	users storage.UserRepository,
) SubtaskService {
	return &subtaskServiceImpl{
		logger: logger,
		users:  users,
	}
}

func (s *subtaskServiceImpl) AddSubtask(ctx context.Context, params AddSubtaskParams) ([]models.Task, error) {
	err := requireFields(
		"subject", params.Subject,
		"deadline", params.Deadline,
		"status", params.Status,
		"email", params.Email,
		"taskId", params.TaskID,
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

	subtask := models.NewSubtask(params.Subject, deadline, status)
	user, err := s.users.PushSubtask(ctx, params.Email, taskID, subtask)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, params.TaskID, "failed to push subtask")
		return nil, translateStorageError(err, ErrUserOrTaskNotFound)
	}

	s.logger.Info().
		Str("email", params.Email).
		Str("task_id", params.TaskID).
		Str("subtask_id", subtask.ID.Hex()).
		Msg("created subtask")
	return user.Tasks, nil
}

func (s *subtaskServiceImpl) ListSubtasks(ctx context.Context, params ListSubtasksParams) ([]models.Subtask, error) {
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

	user, err := s.users.GetUserByEmail(ctx, params.Email)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, params.TaskID, "failed to select user by email")
		return nil, translateStorageError(err, ErrNoActiveSubtasks)
	}

	subtasks, ok := user.ActiveSubtasksOf(taskID)
	if !ok || len(subtasks) == 0 {
		s.logger.Info().
			Str("email", params.Email).
			Str("task_id", params.TaskID).
			Bool("task_found", ok).
			Msg("no subtasks found")
		return nil, ErrNoActiveSubtasks
	}

	s.logger.Info().
		Int("count", len(subtasks)).
		Str("email", params.Email).
		Str("task_id", params.TaskID).
		Msg("subtasks found")
	return subtasks, nil
}

func (s *subtaskServiceImpl) ReplaceSubtasks(ctx context.Context, params ReplaceSubtasksParams) ([]models.Subtask, error) {
	err := requireFields(
		"email", params.Email,
		"taskId", params.TaskID,
	)
	if err != nil {
		return nil, err
	}
	if params.Subtasks == nil {
		return nil, fmt.Errorf("%w: subtaskList", ErrMissingFields)
	}

	taskID, err := parseID("taskId", params.TaskID)
	if err != nil {
		return nil, err
	}
	subtasks, err := newSubtaskList(params.Subtasks)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, params.Email)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, params.TaskID, "failed to select user by email")
		return nil, translateStorageError(err, ErrUserNotFound)
	}

	task := user.TaskByID(taskID)
	if task == nil || task.IsDeleted {
		s.logger.Error().
			Str("email", params.Email).
			Str("task_id", params.TaskID).
			Bool("exists", task != nil).
			Msg("task not found")
		return nil, ErrTaskNotFound
	}

	deleted := task.DeletedSubtasks()
	regenerated := uniqueSubtaskIDs(subtasks, deleted)
	merged := make([]models.Subtask, 0, len(subtasks)+len(deleted))
	merged = append(merged, subtasks...)
	merged = append(merged, deleted...)
	task.Subtasks = merged

	err = s.users.SaveUser(ctx, user)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, params.TaskID, "failed to save user")
		return nil, translateStorageError(err, ErrUserNotFound)
	}

	s.logger.Info().
		Str("email", params.Email).
		Str("task_id", params.TaskID).
		Int("count", len(subtasks)).
		Int("kept_deleted", len(deleted)).
		Int("regenerated_ids", regenerated).
		Msg("replaced subtasks")
	return subtasks, nil
}

func (s *subtaskServiceImpl) DeleteSubtask(ctx context.Context, params DeleteSubtaskParams) (*models.User, error) {
	err := requireFields(
		"taskId", params.TaskID,
		"email", params.Email,
		"subtaskId", params.SubtaskID,
	)
	if err != nil {
		return nil, err
	}

	taskID, err := parseID("taskId", params.TaskID)
	if err != nil {
		return nil, err
	}
	subtaskID, err := parseID("subtaskId", params.SubtaskID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.MarkSubtaskDeleted(ctx, params.Email, taskID, subtaskID)
	if err != nil {
		logStorageFailure(s.logger, err, params.Email, params.TaskID, "failed to mark subtask deleted")
		return nil, translateStorageError(err, ErrSubtaskNotFound)
	}

	s.logger.Info().
		Str("email", params.Email).
		Str("task_id", params.TaskID).
		Str("subtask_id", params.SubtaskID).
		Msg("deleted subtask")
	return user, nil
}

// newSubtaskList validates the caller supplied subtasks and converts
// them, keeping the given IDs when they are valid.
func newSubtaskList(inputs []SubtaskInput) ([]models.Subtask, error) {
	subtasks := make([]models.Subtask, 0, len(inputs))
	for i, in := range inputs {
		err := requireFields(
			"subject", in.Subject,
			"deadline", in.Deadline,
			"status", in.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("subtaskList[%d]: %w", i, err)
		}

		deadline, err := parseDeadline(in.Deadline)
		if err != nil {
			return nil, fmt.Errorf("subtaskList[%d]: %w", i, err)
		}
		status, err := parseStatus(in.Status)
		if err != nil {
			return nil, fmt.Errorf("subtaskList[%d]: %w", i, err)
		}

		subtask := models.NewSubtask(in.Subject, deadline, status)
		if id, err := primitive.ObjectIDFromHex(in.ID); err == nil {
			subtask.ID = id
		}
		subtask.IsDeleted = in.IsDeleted
		subtasks = append(subtasks, subtask)
	}
	return subtasks, nil
}

// uniqueSubtaskIDs gives a fresh id to every subtask whose id repeats
// an earlier one in the list or belongs to a kept tombstone. It returns
// the number of ids replaced.
func uniqueSubtaskIDs(subtasks, tombstones []models.Subtask) int {
	seen := make(map[primitive.ObjectID]struct{}, len(subtasks)+len(tombstones))
	for _, t := range tombstones {
		seen[t.ID] = struct{}{}
	}

	var regenerated int
	for i := range subtasks {
		if _, ok := seen[subtasks[i].ID]; ok {
			subtasks[i].ID = primitive.NewObjectID()
			regenerated++
		}
		seen[subtasks[i].ID] = struct{}{}
	}
	return regenerated
}
