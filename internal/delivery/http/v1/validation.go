package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
	"github.com/adanyl0v/go-todo-tasks/internal/services"
)

const (
	deadlineTag   = "deadline"
	taskStatusTag = "taskstatus"
)

const maxRequestBodyBytes = 1 << 20

// RegisterValidators installs the custom tags used by the request
// structs on gin's validator engine. It must be called once before
// serving requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			name, _, _ = strings.Cut(field.Tag.Get("uri"), ",")
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	err := v.RegisterValidation(deadlineTag, func(fl validator.FieldLevel) bool {
		_, err := models.ParseDeadline(fl.Field().String())
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("failed to register %s validator: %w", deadlineTag, err)
	}

	err = v.RegisterValidation(taskStatusTag, func(fl validator.FieldLevel) bool {
		return models.TaskStatus(fl.Field().String()).Valid()
	})
	if err != nil {
		return fmt.Errorf("failed to register %s validator: %w", taskStatusTag, err)
	}
	return nil
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (r *emailRequest) setDefaultEmail(email string) {
	if r.Email == "" {
		r.Email = email
	}
}

type taskFieldsRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Deadline string `json:"deadline" binding:"required,deadline"`
	Status   string `json:"status" binding:"required,taskstatus"`
}

// decodeRequest reads the JSON body into req. An empty body leaves req
// untouched. For GET and DELETE requests the email falls back to the
// query string.
func decodeRequest(c *gin.Context, req any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errRequestBodyTooLarge
		}
		return errInvalidRequestBody
	}

	if len(bytes.TrimSpace(body)) > 0 {
		err = json.Unmarshal(body, req)
		if err != nil {
			return errInvalidRequestBody
		}
	}

	if r, ok := req.(interface{ setDefaultEmail(string) }); ok {
		switch c.Request.Method {
		case http.MethodGet, http.MethodDelete:
			r.setDefaultEmail(c.Query("email"))
		}
	}
	return nil
}

func validateRequest(req any) error {
	return binding.Validator.ValidateStruct(req)
}

// newValidationError converts binding failures into the messages the
// services use for the same conditions.
func newValidationError(err error) apiError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newBadRequestError(err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return newBadRequestError(fmt.Sprintf("%s: %s", services.ErrMissingFields, fe.Field()))
	case deadlineTag:
		return newBadRequestError(services.ErrInvalidDeadline.Error())
	case taskStatusTag:
		return newBadRequestError(fmt.Sprintf("%s: %q", services.ErrInvalidTaskStatus, fe.Value()))
	default:
		return newBadRequestError(fmt.Sprintf("invalid field %s", fe.Field()))
	}
}

// bind decodes and validates req, aborting the request on failure.
// fill runs between the two steps to copy path parameters.
func (h *handlerImpl) bind(c *gin.Context, req any, fill func()) bool {
	err := decodeRequest(c, req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to decode request body")
		if errors.Is(err, errRequestBodyTooLarge) {
			abort(c, newAPIError(http.StatusRequestEntityTooLarge, err.Error()))
			return false
		}
		abort(c, newBadRequestError(err.Error()))
		return false
	}

	if fill != nil {
		fill()
	}

	err = validateRequest(req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("invalid request")
		abort(c, newValidationError(err))
		return false
	}
	return true
}
