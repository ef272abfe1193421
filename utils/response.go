package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// Invalid reports a rejected form; data carries the submitted input and field errors for re-rendering.
func Invalid(ctx *gin.Context, code int, data interface{}) {
	Respond(ctx, http.StatusBadRequest, code, "validation failed", data)
}

// Fail logs err and writes a 500 response without leaking the cause.
func Fail(ctx *gin.Context, code int, message string, err error) {
	Sugar.Errorw(message, "code", code, "path", ctx.Request.URL.Path, "error", err)
	Error(ctx, http.StatusInternalServerError, code, message)
}
