package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	dom "TodoAPI/internal/domain"
	"TodoAPI/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyRepo wraps the in-memory repo and counts calls per method.
type spyRepo struct {
	*repo.MemoryTodoRepo

	mu        sync.Mutex
	calls     map[string]int
	listErr   error
	deleteGap bool // delete the row right after the existence check
	afterList func()
}

func newSpyRepo() *spyRepo {
	return &spyRepo{MemoryTodoRepo: repo.NewMemoryTodoRepo(), calls: make(map[string]int)}
}

func (r *spyRepo) count(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[name]++
}

func (r *spyRepo) called(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *spyRepo) List(ctx context.Context) ([]dom.Todo, error) {
	r.count("List")
	if r.listErr != nil {
		return nil, r.listErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list, err := r.MemoryTodoRepo.List(ctx)
	if r.afterList != nil {
		r.afterList()
	}
	return list, err
}

func (r *spyRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	r.count("GetByID")
	t, err := r.MemoryTodoRepo.GetByID(ctx, id)
	if err == nil && r.deleteGap {
		_, _ = r.MemoryTodoRepo.Delete(ctx, id)
	}
	return t, err
}

func (r *spyRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	r.count("Create")
	return r.MemoryTodoRepo.Create(ctx, t)
}

func (r *spyRepo) Update(ctx context.Context, id string, patch dom.TodoPatch) (dom.Todo, error) {
	r.count("Update")
	return r.MemoryTodoRepo.Update(ctx, id, patch)
}

func (r *spyRepo) Delete(ctx context.Context, id string) (dom.Todo, error) {
	r.count("Delete")
	return r.MemoryTodoRepo.Delete(ctx, id)
}

// fakeCache is an in-process ListCache that keeps the generation contract.
type fakeCache struct {
	mu          sync.Mutex
	list        []dom.Todo
	gen         int64
	gets        int
	invalidated int
}

func (c *fakeCache) GetList(ctx context.Context) ([]dom.Todo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.list, nil
}

func (c *fakeCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *fakeCache) SetList(ctx context.Context, list []dom.Todo, gen int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.list = list
	}
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.gen++
	c.list = nil
	return nil
}

func ptr[T any](v T) *T { return &v }

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	var nf *dom.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Todo not found", nf.Error())
}

func TestTodoService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newSpyRepo(), nil)

	created, err := svc.Create(ctx, dom.Todo{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Completed)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Completed, got.Completed)
}

func TestTodoService_GetByID_NotFound(t *testing.T) {
	svc := NewTodoService(newSpyRepo(), nil)

	_, err := svc.GetByID(context.Background(), "missing")
	assertNotFound(t, err)
}

func TestTodoService_Update_MissingIDDoesNotWrite(t *testing.T) {
	r := newSpyRepo()
	svc := NewTodoService(r, nil)

	_, err := svc.Update(context.Background(), "missing", dom.TodoPatch{Completed: ptr(true)})

	assertNotFound(t, err)
	assert.Equal(t, 1, r.called("GetByID"))
	assert.Equal(t, 0, r.called("Update"))
}

func TestTodoService_Delete_MissingIDDoesNotWrite(t *testing.T) {
	r := newSpyRepo()
	svc := NewTodoService(r, nil)

	_, err := svc.Delete(context.Background(), "missing")

	assertNotFound(t, err)
	assert.Equal(t, 0, r.called("Delete"))
}

func TestTodoService_Update_RowVanishesAfterCheck(t *testing.T) {
	ctx := context.Background()
	r := newSpyRepo()
	svc := NewTodoService(r, nil)
	created, err := svc.Create(ctx, dom.Todo{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	r.deleteGap = true
	_, err = svc.Update(ctx, created.ID, dom.TodoPatch{Completed: ptr(true)})

	assertNotFound(t, err)
	assert.Equal(t, 1, r.called("Update"))
}

func TestTodoService_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newSpyRepo(), nil)
	created, err := svc.Create(ctx, dom.Todo{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	once, err := svc.Update(ctx, created.ID, dom.TodoPatch{Completed: ptr(!created.Completed)})
	require.NoError(t, err)
	twice, err := svc.Update(ctx, created.ID, dom.TodoPatch{Completed: ptr(!once.Completed)})
	require.NoError(t, err)

	assert.NotEqual(t, created.Completed, once.Completed)
	assert.Equal(t, created.Completed, twice.Completed)
}

func TestTodoService_DeleteReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newSpyRepo(), nil)
	created, err := svc.Create(ctx, dom.Todo{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = svc.GetByID(ctx, created.ID)
	assertNotFound(t, err)
}

func TestTodoService_StorageErrorsPassThrough(t *testing.T) {
	r := newSpyRepo()
	boom := errors.New("connection refused")
	r.listErr = boom
	svc := NewTodoService(r, nil)

	_, err := svc.List(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, dom.KindUnknown, dom.KindOf(err))
}

func TestTodoService_ListUsesCache(t *testing.T) {
	ctx := context.Background()
	r := newSpyRepo()
	c := &fakeCache{}
	svc := NewTodoService(r, c)

	_, err := svc.Create(ctx, dom.Todo{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.invalidated)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.called("List"))

	_, err = svc.Create(ctx, dom.Todo{Title: "Buy bread", Description: "rye"})
	require.NoError(t, err)
	third, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Len(t, third, 2)
	assert.Equal(t, 2, r.called("List"))
}

func TestTodoService_ListReadBeforeWriteIsNotCached(t *testing.T) {
	ctx := context.Background()
	r := newSpyRepo()
	svc := NewTodoService(r, &fakeCache{})

	read := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	r.afterList = func() {
		once.Do(func() {
			close(read)
			<-release
		})
	}

	done := make(chan []dom.Todo)
	go func() {
		list, _ := svc.List(ctx)
		done <- list
	}()

	<-read
	_, err := svc.Create(ctx, dom.Todo{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	// a list started after the write does not join the stale read
	during, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, during, 1)

	close(release)
	assert.Empty(t, <-done)

	after, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestTodoService_ListIgnoresCallerCancellation(t *testing.T) {
	r := newSpyRepo()
	svc := NewTodoService(r, &fakeCache{})
	_, err := svc.Create(context.Background(), dom.Todo{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
