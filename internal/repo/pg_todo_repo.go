package repo

import (
	"context"
	"errors"

	dom "TodoAPI/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const todoColumns = `id::text, title, description, completed, due_date, created_at, updated_at`

// PGTodoRepo implements TodoRepo with Postgres. Ids come from gen_random_uuid().
type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	rows, err := r.db.Query(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]dom.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	if !isUUID(id) {
		return dom.Todo{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id)
	return translate(scanTodo(row))
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (title, description, completed, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + todoColumns
	row := r.db.QueryRow(ctx, query, t.Title, t.Description, t.Completed, t.DueDate)
	return translate(scanTodo(row))
}

func (r *PGTodoRepo) Update(ctx context.Context, id string, patch dom.TodoPatch) (dom.Todo, error) {
	if !isUUID(id) {
		return dom.Todo{}, ErrNotFound
	}
	query := `
		UPDATE todos SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			completed = COALESCE($4, completed),
			due_date = COALESCE($5, due_date),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + todoColumns
	row := r.db.QueryRow(ctx, query, id, patch.Title, patch.Description, patch.Completed, patch.DueDate)
	return translate(scanTodo(row))
}

func (r *PGTodoRepo) Delete(ctx context.Context, id string) (dom.Todo, error) {
	if !isUUID(id) {
		return dom.Todo{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `DELETE FROM todos WHERE id = $1 RETURNING `+todoColumns, id)
	return translate(scanTodo(row))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (dom.Todo, error) {
	var t dom.Todo
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// translate maps driver errors onto the repo contract.
func translate(t dom.Todo, err error) (dom.Todo, error) {
	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, pgx.ErrNoRows):
		return dom.Todo{}, ErrNotFound
	case IsPGUniqueViolation(err):
		return dom.Todo{}, dom.NewConflictError(err)
	default:
		return dom.Todo{}, err
	}
}

// IsPGUniqueViolation reports whether error is PostgreSQL unique constraint violation (code 23505).
func IsPGUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}

// isUUID guards the uuid column: a malformed id cannot match any row.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
