package repo

import (
	"context"
	"sync"
	"time"

	dom "github.com/YoussoufEfkiren/ToDoList/internal/domain"

	"github.com/jackc/pgx/v5"
)

// MemTaskRepo is an in-memory TaskRepo used by tests and local runs.
// It mirrors the PG implementation's contract, including pgx.ErrNoRows
// for absent rows, so services cannot tell the two apart.
type MemTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]dom.Task
	order  []int64
}

func NewMemTaskRepo() *MemTaskRepo {
	return &MemTaskRepo{nextID: 1, tasks: make(map[int64]dom.Task)}
}

func (r *MemTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

func (r *MemTaskRepo) GetByID(_ context.Context, id int64) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *MemTaskRepo) List(_ context.Context, ownerID int64, status *dom.Status) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Task
	for _, id := range r.order {
		t, ok := r.tasks[id]
		if !ok || t.OwnerID != ownerID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		list = append(list, t)
	}
	return list, nil
}

func (r *MemTaskRepo) Update(_ context.Context, id int64, patch dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	// id, owner and created_at stay as stored; everything else comes
	// from the patch, like the SQL SET list.
	t.Title = patch.Title
	t.Description = patch.Description
	t.Status = patch.Status
	t.DueDate = patch.DueDate
	t.UpdatedAt = time.Now().UTC()
	r.tasks[id] = t
	return t, nil
}

func (r *MemTaskRepo) UpdateStatus(_ context.Context, id int64, status dom.Status) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	r.tasks[id] = t
	return t, nil
}

func (r *MemTaskRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// MemUserRepo is the in-memory UserRepo counterpart.
type MemUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]dom.User
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{nextID: 1, byName: make(map[string]dom.User)}
}

func (r *MemUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *MemUserRepo) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[username]; ok {
		return dom.User{}, errDuplicateUsername
	}
	u := dom.User{ID: r.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	r.nextID++
	r.byName[username] = u
	return u, nil
}
