package repo

import (
	"context"

	dom "github.com/YoussoufEfkiren/ToDoList/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepo persists tasks. Lookups by ID are not owner-scoped: the service
// fetches the row and lets the authorization guard decide, so a non-owner
// gets a deliberate 403 rather than a 404. Absent rows surface as
// pgx.ErrNoRows from every implementation.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, id int64) (dom.Task, error)
	List(ctx context.Context, ownerID int64, status *dom.Status) ([]dom.Task, error)
	Update(ctx context.Context, id int64, patch dom.Task) (dom.Task, error)
	UpdateStatus(ctx context.Context, id int64, status dom.Status) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (title, description, status, due_date, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, status, due_date, owner_id, created_at, updated_at`
	var out dom.Task
	err := r.db.QueryRow(ctx, query, t.Title, t.Description, t.Status, t.DueDate, t.OwnerID).Scan(
		&out.ID, &out.Title, &out.Description, &out.Status, &out.DueDate,
		&out.OwnerID, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	query := `
		SELECT id, title, description, status, due_date, owner_id, created_at, updated_at
		FROM tasks WHERE id = $1`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.DueDate,
		&t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) List(ctx context.Context, ownerID int64, status *dom.Status) ([]dom.Task, error) {
	query := `
		SELECT id, title, description, status, due_date, owner_id, created_at, updated_at
		FROM tasks WHERE owner_id = $1`
	args := []any{ownerID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.DueDate,
			&t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, id int64, patch dom.Task) (dom.Task, error) {
	// owner_id is never in the SET list: ownership is immutable.
	query := `
		UPDATE tasks SET title = $2, description = $3, status = $4, due_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, description, status, due_date, owner_id, created_at, updated_at`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, patch.Title, patch.Description, patch.Status, patch.DueDate).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.DueDate,
		&t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) UpdateStatus(ctx context.Context, id int64, status dom.Status) (dom.Task, error) {
	query := `
		UPDATE tasks SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, description, status, due_date, owner_id, created_at, updated_at`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.DueDate,
		&t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
