package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "TodoAPI/internal/domain"

	"github.com/google/uuid"
)

var _ TodoRepo = (*MemoryTodoRepo)(nil)

// MemoryTodoRepo is a map-backed TodoRepo for running without a database.
type MemoryTodoRepo struct {
	mu    sync.RWMutex
	todos map[string]memoryEntry
	seq   uint64
	now   func() time.Time
}

// memoryEntry keeps insertion order so equal timestamps still list newest first.
type memoryEntry struct {
	todo dom.Todo
	seq  uint64
}

func NewMemoryTodoRepo() *MemoryTodoRepo {
	return &MemoryTodoRepo{
		todos: make(map[string]memoryEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]memoryEntry, 0, len(r.todos))
	for _, e := range r.todos {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.todo.CreatedAt.Equal(b.todo.CreatedAt) {
			return a.todo.CreatedAt.After(b.todo.CreatedAt)
		}
		return a.seq > b.seq
	})

	list := make([]dom.Todo, len(entries))
	for i, e := range entries {
		list[i] = clone(e.todo)
	}
	return list, nil
}

func (r *MemoryTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return clone(e.todo), nil
}

func (r *MemoryTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.seq++
	r.todos[t.ID] = memoryEntry{todo: clone(t), seq: r.seq}
	return clone(t), nil
}

func (r *MemoryTodoRepo) Update(ctx context.Context, id string, patch dom.TodoPatch) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	e.todo = patch.Apply(e.todo)
	e.todo.UpdatedAt = r.now()
	r.todos[id] = e
	return clone(e.todo), nil
}

func (r *MemoryTodoRepo) Delete(ctx context.Context, id string) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	delete(r.todos, id)
	return clone(e.todo), nil
}

// clone copies the DueDate pointer so callers never share it with the store.
func clone(t dom.Todo) dom.Todo {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
