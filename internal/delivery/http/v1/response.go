package v1

import "github.com/gin-gonic/gin"

type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(c *gin.Context, code int, data any, message string) {
	c.JSON(code, apiResponse{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    code < 400,
	})
}
