package repo

import (
	"context"
	"errors"

	dom "TodoAPI/internal/domain"
)

// ErrNotFound is returned when no todo has the requested id.
var ErrNotFound = errors.New("todo not found")

// TodoRepo is the storage contract for todos. Implementations assign ids and
// timestamps, report a missing id as ErrNotFound and uniqueness violations as
// *dom.ConflictError.
type TodoRepo interface {
	// List returns all todos, newest first.
	List(ctx context.Context) ([]dom.Todo, error)
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	// Update applies patch and returns the stored result.
	Update(ctx context.Context, id string, patch dom.TodoPatch) (dom.Todo, error)
	// Delete removes the todo and returns what was removed.
	Delete(ctx context.Context, id string) (dom.Todo, error)
}
