package repository

import (
	"context"

	"github.com/Aidin1998/usertodos/common/dbutil"
	"github.com/Aidin1998/usertodos/internal/database"
	"github.com/Aidin1998/usertodos/pkg/models"
	sq "github.com/Masterminds/squirrel"
)

// TodoInput carries the writable todo columns. Nil fields are stored as NULL.
type TodoInput struct {
	UserID      *Scalar `json:"user_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// TodoRepository issues todo statements through the gateway
type TodoRepository struct {
	db database.Gateway
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db database.Gateway) *TodoRepository {
	return &TodoRepository{db: db}
}

// List returns every todo. An empty table yields an empty slice.
func (r *TodoRepository) List(ctx context.Context) ([]models.Todo, error) {
	return dbutil.FindAll[models.Todo](ctx, r.db,
		sq.Select("*").From(todosTable))
}

// Create inserts a todo from user_id and title only.
func (r *TodoRepository) Create(ctx context.Context, in TodoInput) (*models.Todo, error) {
	return dbutil.FindOne[models.Todo](ctx, r.db,
		sq.Insert(todosTable).
			Columns("user_id", "title").
			Values(in.UserID, in.Title).
			Suffix(returningAll))
}

// Get returns the todo with id, or errors.NotFound.
func (r *TodoRepository) Get(ctx context.Context, id string) (*models.Todo, error) {
	return dbutil.FindOne[models.Todo](ctx, r.db,
		sq.Select("*").From(todosTable).Where(byID(id)))
}

// Update replaces title and description of the todo with id, or returns
// errors.NotFound.
func (r *TodoRepository) Update(ctx context.Context, id string, in TodoInput) (*models.Todo, error) {
	return dbutil.FindOne[models.Todo](ctx, r.db,
		sq.Update(todosTable).
			Set("title", in.Title).
			Set("description", in.Description).
			Where(byID(id)).
			Suffix(returningAll))
}

// Delete removes the todo with id and returns it, or errors.NotFound.
func (r *TodoRepository) Delete(ctx context.Context, id string) (*models.Todo, error) {
	return dbutil.FindOne[models.Todo](ctx, r.db,
		sq.Delete(todosTable).Where(byID(id)).Suffix(returningAll))
}
