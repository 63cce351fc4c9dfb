package repository

import (
	"context"

	"github.com/Aidin1998/usertodos/common/dbutil"
	"github.com/Aidin1998/usertodos/internal/database"
	"github.com/Aidin1998/usertodos/pkg/models"
	sq "github.com/Masterminds/squirrel"
)

// UserInput carries the writable user columns. Nil fields are stored as NULL.
type UserInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserRepository issues user statements through the gateway
type UserRepository struct {
	db database.Gateway
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db database.Gateway) *UserRepository {
	return &UserRepository{db: db}
}

// List returns every user.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return dbutil.FindAll[models.User](ctx, r.db,
		sq.Select("*").From(usersTable))
}

// Create inserts a user from name and email only.
func (r *UserRepository) Create(ctx context.Context, in UserInput) (*models.User, error) {
	return dbutil.FindOne[models.User](ctx, r.db,
		sq.Insert(usersTable).
			Columns("name", "email").
			Values(in.Name, in.Email).
			Suffix(returningAll))
}

// Get returns the user with id, or errors.NotFound.
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	return dbutil.FindOne[models.User](ctx, r.db,
		sq.Select("*").From(usersTable).Where(byID(id)))
}

// Update replaces name and email of the user with id, or returns errors.NotFound.
func (r *UserRepository) Update(ctx context.Context, id string, in UserInput) (*models.User, error) {
	return dbutil.FindOne[models.User](ctx, r.db,
		sq.Update(usersTable).
			Set("name", in.Name).
			Set("email", in.Email).
			Where(byID(id)).
			Suffix(returningAll))
}

// Delete removes the user with id and, through the foreign key, its todos.
// It returns the deleted row or errors.NotFound.
func (r *UserRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	return dbutil.FindOne[models.User](ctx, r.db,
		sq.Delete(usersTable).Where(byID(id)).Suffix(returningAll))
}
