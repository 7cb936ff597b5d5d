package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-tasks/internal/services"
)

type registerUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

func (h *handlerImpl) HandleRegisterUser(c *gin.Context) {
	var req registerUserRequest
	if !h.bind(c, &req, nil) {
		return
	}
	h.logger.Info().
		Str("email", req.Email).
		Msg("register request")

	user, err := h.users.RegisterUser(c, services.RegisterUserParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusCreated, user, "User registered Successfully")
}
