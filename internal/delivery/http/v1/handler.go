package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-tasks/internal/services"
)

type Handler interface {
	HandleRegisterUser(c *gin.Context)

	HandleAddTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleAddSubtask(c *gin.Context)
	HandleListSubtasks(c *gin.Context)
	HandleReplaceSubtasks(c *gin.Context)
	HandleDeleteSubtask(c *gin.Context)

	HandleHealth(c *gin.Context)
}

// Pinger reports whether the storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlerImpl struct {
	logger   zerolog.Logger
	users    services.UserService
	tasks    services.TaskService
	subtasks services.SubtaskService
	storage  Pinger
}

func New(
	logger zerolog.Logger,
	userService services.UserService,
	taskService services.TaskService,
	subtaskService services.SubtaskService,
	storage Pinger,
) Handler {
	return &handlerImpl{
		logger:   logger,
		users:    userService,
		tasks:    taskService,
		subtasks: subtaskService,
		storage:  storage,
	}
}

// Register mounts the API routes on router.
func Register(router gin.IRouter, h Handler) {
	router.POST("/add-user", h.HandleRegisterUser)

	router.POST("/tasks", h.HandleAddTask)
	router.GET("/tasks", h.HandleListTasks)
	router.PUT("/tasks/:taskId", h.HandleUpdateTask)
	router.DELETE("/tasks/:taskId", h.HandleDeleteTask)

	router.POST("/tasks/:taskId/subtask", h.HandleAddSubtask)
	router.GET("/tasks/:taskId/subtasks", h.HandleListSubtasks)
	router.PUT("/tasks/:taskId/subtasks", h.HandleReplaceSubtasks)
	router.DELETE("/tasks/:taskId/subtask/:subtaskId", h.HandleDeleteSubtask)
}
