package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-tasks/internal/services"
)

type addSubtaskRequest struct {
	emailRequest
	taskIDRequest
	taskFieldsRequest
}

func (h *handlerImpl) HandleAddSubtask(c *gin.Context) {
	var req addSubtaskRequest
	if !h.bind(c, &req, func() { req.TaskID = c.Param("taskId") }) {
		return
	}

	tasks, err := h.subtasks.AddSubtask(c, services.AddSubtaskParams{
		Email:    req.Email,
		TaskID:   req.TaskID,
		Subject:  req.Subject,
		Deadline: req.Deadline,
		Status:   req.Status,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.TaskID).
			Msg("failed to add subtask")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusCreated, tasks, "SubTask added successfully")
}

type listSubtasksRequest struct {
	emailRequest
	taskIDRequest
}

func (h *handlerImpl) HandleListSubtasks(c *gin.Context) {
	var req listSubtasksRequest
	if !h.bind(c, &req, func() { req.TaskID = c.Param("taskId") }) {
		return
	}

	subtasks, err := h.subtasks.ListSubtasks(c, services.ListSubtasksParams{
		Email:  req.Email,
		TaskID: req.TaskID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.TaskID).
			Msg("failed to list subtasks")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusOK, subtasks, "Subtasks fetched successfully")
}

type replaceSubtasksRequest struct {
	emailRequest
	taskIDRequest
	// SubtaskList is decoded lazily to tell a missing list
	// from a value that is not an array.
	SubtaskList json.RawMessage `json:"subtaskList"`
}

type subtaskItem struct {
	ID        string `json:"_id"`
	Subject   string `json:"subject"`
	Deadline  string `json:"deadline"`
	Status    string `json:"status"`
	IsDeleted bool   `json:"isDeleted"`
}

func (h *handlerImpl) HandleReplaceSubtasks(c *gin.Context) {
	var req replaceSubtasksRequest
	if !h.bind(c, &req, func() { req.TaskID = c.Param("taskId") }) {
		return
	}

	inputs, err := parseSubtaskList(req.SubtaskList)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.TaskID).
			Msg("invalid subtask list")
		abort(c, newServiceError(err))
		return
	}

	subtasks, err := h.subtasks.ReplaceSubtasks(c, services.ReplaceSubtasksParams{
		Email:    req.Email,
		TaskID:   req.TaskID,
		Subtasks: inputs,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.TaskID).
			Msg("failed to replace subtasks")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusOK, subtasks, "Subtasks updated successfully")
}

// parseSubtaskList returns nil for a missing or null list and a
// non-nil slice for any JSON array.
func parseSubtaskList(raw json.RawMessage) ([]services.SubtaskInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, services.ErrInvalidSubtaskList
	}

	var items []subtaskItem
	err := json.Unmarshal(raw, &items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrInvalidSubtaskList, err)
	}

	inputs := make([]services.SubtaskInput, len(items))
	for i, item := range items {
		inputs[i] = services.SubtaskInput{
			ID:        item.ID,
			Subject:   item.Subject,
			Deadline:  item.Deadline,
			Status:    item.Status,
			IsDeleted: item.IsDeleted,
		}
	}
	return inputs, nil
}

type deleteSubtaskRequest struct {
	emailRequest
	taskIDRequest
	SubtaskID string `json:"-" uri:"subtaskId" binding:"required"`
}

func (h *handlerImpl) HandleDeleteSubtask(c *gin.Context) {
	var req deleteSubtaskRequest
	fill := func() {
		req.TaskID = c.Param("taskId")
		req.SubtaskID = c.Param("subtaskId")
	}
	if !h.bind(c, &req, fill) {
		return
	}

	user, err := h.subtasks.DeleteSubtask(c, services.DeleteSubtaskParams{
		Email:     req.Email,
		TaskID:    req.TaskID,
		SubtaskID: req.SubtaskID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.TaskID).
			Str("subtask_id", req.SubtaskID).
			Msg("failed to delete subtask")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusOK, user, "SubTask deleted successfully")
}
