// Package responses writes the JSON envelope shared by every endpoint:
//
//	{"success": bool, "message": string, "data": any}
//
// data is omitted when there is nothing to return; the catch-all route adds path.
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the response body of every JSON endpoint
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Success sends a 200 response carrying data
func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 Created response
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Failure sends an unsuccessful envelope with the given status.
func Failure(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	Failure(c, http.StatusNotFound, message)
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string) {
	Failure(c, http.StatusInternalServerError, message)
}

// RouteNotFound answers requests that matched no route.
func RouteNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Envelope{
		Success: false,
		Message: "Route not found",
		Path:    c.Request.URL.Path,
	})
}
