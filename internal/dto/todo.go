package dto

import (
	"time"

	dom "TodoAPI/internal/domain"
)

// CreateTodoRequest is the POST /api/todos body. Shape and limits are enforced
// by the create_todo schema before binding.
type CreateTodoRequest struct {
	Title       string     `json:"title" example:"Buy milk"`
	Description string     `json:"description" example:"2% from the corner shop"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty" example:"2026-11-01T09:00:00Z"`
}

// ToDomain builds the new todo. Completed defaults to false.
func (r CreateTodoRequest) ToDomain() dom.Todo {
	t := dom.Todo{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	return t
}

// UpdateTodoRequest is the PUT /api/todos/:id body. nil fields stay unchanged.
type UpdateTodoRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func (r UpdateTodoRequest) ToPatch() dom.TodoPatch {
	return dom.TodoPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
	}
}

type TodoResponse struct {
	ID          string     `json:"id" example:"3f2b8c1e-9a4d-4c7e-8f0a-2b1d6e5c4a90"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func NewTodoResponse(t dom.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTodoResponses never returns nil, so an empty list encodes as [].
func NewTodoResponses(list []dom.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = NewTodoResponse(list[i])
	}
	return out
}

type DeleteTodoResponse struct {
	Message string       `json:"message" example:"Todo deleted successfully"`
	Todo    TodoResponse `json:"todo"`
}
