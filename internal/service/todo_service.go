package service

import (
	"context"
	"errors"

	dom "TodoAPI/internal/domain"
	"TodoAPI/internal/repo"

	"golang.org/x/sync/singleflight"
)

const todoResource = "Todo"

const listFlight = "list"

// ListCache caches the full todo list. Implemented by cache.TodoCache.
// SetList must drop the list when Invalidate ran after gen was read.
type ListCache interface {
	GetList(ctx context.Context) ([]dom.Todo, error)
	Generation(ctx context.Context) (int64, error)
	SetList(ctx context.Context, list []dom.Todo, gen int64) error
	Invalidate(ctx context.Context) error
}

type TodoService struct {
	repo  repo.TodoRepo
	cache ListCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c ListCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

// List returns all todos, newest first.
func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	v, err, _ := s.sf.Do(listFlight, func() (interface{}, error) {
		// joined callers share this read
		ctx := context.WithoutCancel(ctx)
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		}
		gen, genErr := s.cache.Generation(ctx)
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			_ = s.cache.SetList(ctx, list, gen)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

func (s *TodoService) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, notFound(err)
	}
	return t, nil
}

func (s *TodoService) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return created, nil
}

// Update checks the todo exists before writing. A todo deleted between the check
// and the write is still reported as not found.
func (s *TodoService) Update(ctx context.Context, id string, patch dom.TodoPatch) (dom.Todo, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return dom.Todo{}, notFound(err)
	}
	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return dom.Todo{}, notFound(err)
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Delete checks the todo exists, removes it and returns the removed snapshot.
func (s *TodoService) Delete(ctx context.Context, id string) (dom.Todo, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return dom.Todo{}, notFound(err)
	}
	t, err := s.repo.Delete(ctx, id)
	if err != nil {
		return dom.Todo{}, notFound(err)
	}
	s.invalidateCache(ctx)
	return t, nil
}

// invalidateCache also forgets an in-flight list read, which may predate the write.
func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
		s.sf.Forget(listFlight)
	}
}

// notFound turns the repo's missing-row signal into the domain error; other errors pass through.
func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return dom.NewNotFoundError(todoResource)
	}
	return err
}
