// Package handlers maps the users and todos routes onto repository calls.
// Each handler issues one statement and turns its outcome into an envelope.
package handlers

import (
	"net/http"

	"github.com/Aidin1998/usertodos/api/responses"
	"github.com/Aidin1998/usertodos/common/apiutil"
	"github.com/Aidin1998/usertodos/internal/config"
	"github.com/Aidin1998/usertodos/internal/database"
	"github.com/Aidin1998/usertodos/internal/repository"
	"github.com/Aidin1998/usertodos/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const greeting = "Hello Next level developers"

// Handler serves the resource routes
type Handler struct {
	users  *repository.UserRepository
	todos  *repository.TodoRepository
	logger *zap.Logger
	cfg    config.APIConfig
}

// NewHandler creates a new Handler over the given gateway
func NewHandler(db database.Gateway, logger *zap.Logger, cfg config.APIConfig) *Handler {
	return &Handler{
		users:  repository.NewUserRepository(db),
		todos:  repository.NewTodoRepository(db),
		logger: logger.Named("handlers"),
		cfg:    cfg,
	}
}

// RegisterRoutes registers the greeting and the users and todos routes
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Greeting)

	r.GET("/users", h.ListUsers)
	r.POST("/users", h.CreateUser)
	r.GET("/users/:id", h.GetUser)
	r.PUT("/users/:id", h.UpdateUser)
	r.DELETE("/users/:id", h.DeleteUser)

	r.POST("/todos", h.CreateTodo)
	r.GET("/todos", h.ListTodos)
	r.GET("/todos/:id", h.GetTodo)
	r.PUT("/todos/:id", h.UpdateTodo)
	r.DELETE("/todos/:id", h.DeleteTodo)
}

// Greeting handles GET /
func (h *Handler) Greeting(c *gin.Context) {
	c.String(http.StatusOK, greeting)
}

// bind decodes the JSON body into dst without rejecting anything: fields
// that are missing or of the wrong type stay nil and reach the database as NULL.
func (h *Handler) bind(c *gin.Context, dst any) {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Debug("Request body not fully decoded",
			zap.String(apiutil.TraceIDKey, apiutil.GetTraceID(c)),
			zap.Error(err))
	}
}

// fail writes the envelope for err. notFound is the message used when err is
// errors.NotFound; any other error is reported as a database failure.
func (h *Handler) fail(c *gin.Context, err error, notFound string) {
	if errors.StatusCode(err) == http.StatusNotFound {
		responses.NotFound(c, notFound)
		return
	}

	message := errors.Database.Message
	var dbErr *errors.Error
	if errors.As(err, &dbErr) && h.cfg.ExposeDBErrors {
		message = dbErr.Cause()
	}

	fields := []zap.Field{
		zap.String(apiutil.TraceIDKey, apiutil.GetTraceID(c)),
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	}
	if dbErr != nil {
		fields = append(fields, zap.String("db_code", dbErr.Code))
	}
	h.logger.Error("Request failed", fields...)

	responses.InternalServerError(c, message)
}
