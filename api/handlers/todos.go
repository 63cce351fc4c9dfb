package handlers

import (
	"net/http"

	"github.com/Aidin1998/usertodos/api/responses"
	"github.com/Aidin1998/usertodos/internal/repository"
	"github.com/Aidin1998/usertodos/pkg/errors"
	"github.com/gin-gonic/gin"
)

const (
	todoNotFound = "todo not found"
	noTodosFound = "no todos found"
)

// CreateTodo handles POST /todos. Only user_id and title are stored.
func (h *Handler) CreateTodo(c *gin.Context) {
	var req repository.TodoInput
	h.bind(c, &req)

	todo, err := h.todos.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, todoNotFound)
		return
	}
	responses.Created(c, "todo created", todo)
}

// ListTodos handles GET /todos. An empty table answers 404, unlike GET /users.
func (h *Handler) ListTodos(c *gin.Context) {
	todos, err := h.todos.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, noTodosFound)
		return
	}
	if len(todos) == 0 {
		responses.NotFound(c, noTodosFound)
		return
	}
	responses.Success(c, "todos retrieved successfully", todos)
}

// GetTodo handles GET /todos/:id
func (h *Handler) GetTodo(c *gin.Context) {
	todo, err := h.todos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, todoNotFound)
		return
	}
	responses.Success(c, "todo retrieved successfully", todo)
}

// UpdateTodo handles PUT /todos/:id. Only title and description change.
func (h *Handler) UpdateTodo(c *gin.Context) {
	var req repository.TodoInput
	h.bind(c, &req)

	todo, err := h.todos.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, todoNotFound)
		return
	}

	if h.cfg.LegacyTodoUpdate {
		// Legacy behavior: the update is committed but no response is
		// written; the request is held until the client goes away.
		<-c.Request.Context().Done()
		c.Abort()
		return
	}
	responses.Success(c, "todo updated successfully", todo)
}

// DeleteTodo handles DELETE /todos/:id. A missing todo answers 200 with
// success=false, unlike DELETE /users/:id.
func (h *Handler) DeleteTodo(c *gin.Context) {
	todo, err := h.todos.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, errors.NotFound) {
		responses.Failure(c, http.StatusOK, todoNotFound)
		return
	}
	if err != nil {
		h.fail(c, err, todoNotFound)
		return
	}
	responses.Success(c, "todo deleted successfully", todo)
}
