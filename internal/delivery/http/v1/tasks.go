package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-tasks/internal/services"
)

type taskIDRequest struct {
	TaskID string `json:"-" uri:"taskId" binding:"required"`
}

type addTaskRequest struct {
	emailRequest
	taskFieldsRequest
}

func (h *handlerImpl) HandleAddTask(c *gin.Context) {
	var req addTaskRequest
	if !h.bind(c, &req, nil) {
		return
	}

	task, err := h.tasks.AddTask(c, services.AddTaskParams{
		Email:    req.Email,
		Subject:  req.Subject,
		Deadline: req.Deadline,
		Status:   req.Status,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to add task")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusCreated, task, "Task created successfully")
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	var req emailRequest
	if !h.bind(c, &req, nil) {
		return
	}

	tasks, err := h.tasks.ListTasks(c, req.Email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusOK, tasks, "Tasks fetched successfully")
}

type updateTaskRequest struct {
	emailRequest
	taskIDRequest
	taskFieldsRequest
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if !h.bind(c, &req, func() { req.TaskID = c.Param("taskId") }) {
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
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
			Msg("failed to update task")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusOK, task, "Task updated successfully")
}

type deleteTaskRequest struct {
	emailRequest
	taskIDRequest
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	var req deleteTaskRequest
	if !h.bind(c, &req, func() { req.TaskID = c.Param("taskId") }) {
		return
	}

	user, err := h.tasks.DeleteTask(c, services.DeleteTaskParams{
		Email:  req.Email,
		TaskID: req.TaskID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.TaskID).
			Msg("failed to delete task")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusOK, user, "Task deleted successfully")
}
