package handlers

import (
	"github.com/Aidin1998/usertodos/api/responses"
	"github.com/Aidin1998/usertodos/internal/repository"
	"github.com/gin-gonic/gin"
)

const userNotFound = "user not found"

// ListUsers handles GET /users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, userNotFound)
		return
	}
	responses.Success(c, "users retrieved successfully", users)
}

// CreateUser handles POST /users. Only name and email are stored.
func (h *Handler) CreateUser(c *gin.Context) {
	var req repository.UserInput
	h.bind(c, &req)

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, userNotFound)
		return
	}
	responses.Created(c, "data inserted", user)
}

// GetUser handles GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, userNotFound)
		return
	}
	responses.Success(c, "user retrieved successfully", user)
}

// UpdateUser handles PUT /users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	var req repository.UserInput
	h.bind(c, &req)

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, userNotFound)
		return
	}
	responses.Success(c, "user updated successfully", user)
}

// DeleteUser handles DELETE /users/:id. The user's todos go with it.
func (h *Handler) DeleteUser(c *gin.Context) {
	user, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, userNotFound)
		return
	}
	responses.Success(c, "user deleted successfully", user)
}
