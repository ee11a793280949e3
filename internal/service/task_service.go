package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/YoussoufEfkiren/ToDoList/internal/authz"
	"github.com/YoussoufEfkiren/ToDoList/internal/cache"
	dom "github.com/YoussoufEfkiren/ToDoList/internal/domain"
	"github.com/YoussoufEfkiren/ToDoList/internal/events"
	"github.com/YoussoufEfkiren/ToDoList/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

const maxTitleLen = 255

// CreateFields carries the validated-to-be input for a new task.
type CreateFields struct {
	Title       string
	Description string
	Status      string // empty defaults to pending
	DueDate     *time.Time
}

// TaskPatch is a partial update. Nil pointers leave the field untouched.
// DueDateSet distinguishes "due_date absent" from "due_date: null"
// (the latter clears the date).
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
	DueDateSet  bool
}

// TaskService validates input, applies the authorization guard, mutates
// the store and emits a change event for the owner on success.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	pub   events.Publisher
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled;
// if p is nil, no events are emitted.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache, p events.Publisher) *TaskService {
	return &TaskService{repo: r, cache: c, pub: p}
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, f CreateFields) (dom.Task, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return dom.Task{}, newValidationError("title", "title is required")
	}
	if len(title) > maxTitleLen {
		return dom.Task{}, newValidationError("title", "title must be at most 255 characters")
	}

	status := dom.StatusPending
	if f.Status != "" {
		status = dom.Status(f.Status)
		if !status.Valid() {
			return dom.Task{}, newValidationError("status", "status must be pending, in_progress or completed")
		}
	}

	t, err := s.repo.Create(ctx, dom.Task{
		Title:       title,
		Description: strings.TrimSpace(f.Description),
		Status:      status,
		DueDate:     f.DueDate,
		OwnerID:     ownerID,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, ownerID)
	s.emit(ctx, events.KindCreated, t)
	return t, nil
}

// List returns the caller's tasks, optionally restricted to one status,
// in insertion order.
func (s *TaskService) List(ctx context.Context, ownerID int64, status *dom.Status) ([]dom.Task, error) {
	if status != nil && !status.Valid() {
		return nil, newValidationError("status", "status must be pending, in_progress or completed")
	}
	if s.cache == nil {
		return s.repo.List(ctx, ownerID, status)
	}
	key := "list:" + strconv.FormatInt(ownerID, 10)
	if status != nil {
		key += ":" + string(*status)
	}
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, ownerID, status); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx, ownerID, status)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, ownerID, status, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

func (s *TaskService) Get(ctx context.Context, actingUserID, id int64) (dom.Task, error) {
	t, err := s.fetch(ctx, id)
	if err != nil {
		return dom.Task{}, err
	}
	if !authz.Permit(actingUserID, t, authz.ActionView) {
		return dom.Task{}, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, actingUserID, id int64, p TaskPatch) (dom.Task, error) {
	existing, err := s.fetch(ctx, id)
	if err != nil {
		return dom.Task{}, err
	}
	if !authz.Permit(actingUserID, existing, authz.ActionUpdate) {
		return dom.Task{}, ErrForbidden
	}

	patch := existing
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return dom.Task{}, newValidationError("title", "title is required")
		}
		if len(title) > maxTitleLen {
			return dom.Task{}, newValidationError("title", "title must be at most 255 characters")
		}
		patch.Title = title
	}
	if p.Description != nil {
		patch.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		status := dom.Status(*p.Status)
		if !status.Valid() {
			return dom.Task{}, newValidationError("status", "status must be pending, in_progress or completed")
		}
		patch.Status = status
	}
	if p.DueDateSet {
		patch.DueDate = p.DueDate // nil clears the date
	}

	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, t.OwnerID)
	s.emit(ctx, events.KindUpdated, t)
	return t, nil
}

// UpdateStatus overwrites the status unconditionally; any status is
// reachable from any other.
func (s *TaskService) UpdateStatus(ctx context.Context, actingUserID, id int64, status string) (dom.Task, error) {
	st := dom.Status(status)
	if !st.Valid() {
		return dom.Task{}, newValidationError("status", "status must be pending, in_progress or completed")
	}
	existing, err := s.fetch(ctx, id)
	if err != nil {
		return dom.Task{}, err
	}
	if !authz.Permit(actingUserID, existing, authz.ActionUpdate) {
		return dom.Task{}, ErrForbidden
	}
	t, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, t.OwnerID)
	s.emit(ctx, events.KindStatusChanged, t)
	return t, nil
}

// Delete removes the task permanently. Deleting an already-absent task
// returns ErrNotFound.
func (s *TaskService) Delete(ctx context.Context, actingUserID, id int64) error {
	existing, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Permit(actingUserID, existing, authz.ActionDelete) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, existing.OwnerID)
	s.emit(ctx, events.KindDeleted, existing)
	return nil
}

func (s *TaskService) fetch(ctx context.Context, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateOwner(ctx, ownerID)
	}
}

// emit is fire-and-forget: the publisher handles its own failures.
func (s *TaskService) emit(ctx context.Context, kind events.Kind, t dom.Task) {
	if s.pub != nil {
		s.pub.Publish(ctx, t.OwnerID, events.NewEvent(kind, t))
	}
}
