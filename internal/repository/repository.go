// Package repository builds the statements behind each resource route. Every
// method issues exactly one gateway call.
package repository

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	usersTable = "users"
	todosTable = "todos"

	returningAll = "RETURNING *"
)

// byID selects rows of table whose id equals the raw path value. The value is
// bound as-is so the database decides whether it is a valid id.
func byID(id string) sq.Eq {
	return sq.Eq{"id": id}
}
