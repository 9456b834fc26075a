package domain

import "time"

// Domain entity: the todo as the service sees it.
// Independent of Gin, Postgres and Redis.
type Todo struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPatch holds the mutable fields of an update. Nil means "leave unchanged".
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.DueDate == nil
}

// Apply returns t with the patch fields applied.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	return t
}
