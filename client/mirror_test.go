package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fakeServer is a minimal stand-in for the task API. When failing is
// set, every request gets a 500.
type fakeServer struct {
	nextID  int64
	tasks   map[int64]Task
	failing atomic.Bool
}

func newFakeServer() (*fakeServer, *httptest.Server) {
	f := &fakeServer{nextID: 1, tasks: make(map[int64]Task)}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		if f.fail(w) {
			return
		}
		var body CreateTask
		_ = json.NewDecoder(r.Body).Decode(&body)
		t := Task{ID: f.nextID, Title: body.Title, Status: "pending", CreatedAt: time.Now()}
		if body.Status != "" {
			t.Status = body.Status
		}
		f.nextID++
		f.tasks[t.ID] = t
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(t)
	})
	mux.HandleFunc("GET /api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		if f.fail(w) {
			return
		}
		list := make([]Task, 0, len(f.tasks))
		for _, t := range f.tasks {
			list = append(list, t)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"tasks": list})
	})
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if f.fail(w) {
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Task deleted successfully"})
	})
	return f, httptest.NewServer(mux)
}

func (f *fakeServer) fail(w http.ResponseWriter) bool {
	if f.failing.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
		return true
	}
	return false
}

func TestMirror_AppliesSuccessfulMutations(t *testing.T) {
	_, srv := newFakeServer()
	defer srv.Close()
	m := NewMirror(New(srv.URL, "test-token"))
	ctx := context.Background()

	task, err := m.Create(ctx, CreateTask{Title: "hello"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got, ok := m.Cache().Get(task.ID); !ok || got.Title != "hello" {
		t.Errorf("cache after create = %+v, ok=%v", got, ok)
	}

	if err := m.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := m.Cache().Get(task.ID); ok {
		t.Error("cache still holds deleted task")
	}
}

func TestMirror_FailureLeavesCacheUntouched(t *testing.T) {
	f, srv := newFakeServer()
	defer srv.Close()
	m := NewMirror(New(srv.URL, "test-token"))
	ctx := context.Background()

	task, err := m.Create(ctx, CreateTask{Title: "keep me"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	f.failing.Store(true)
	if _, err := m.Create(ctx, CreateTask{Title: "lost"}); err == nil {
		t.Fatal("Create() against failing server succeeded")
	}
	if err := m.Delete(ctx, task.ID); err == nil {
		t.Fatal("Delete() against failing server succeeded")
	}

	var apiErr *APIError
	if err := m.Delete(ctx, task.ID); !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Errorf("error = %v, want *APIError with status 500", err)
	}

	if m.Cache().Len() != 1 {
		t.Errorf("cache len = %d after failed mutations, want 1", m.Cache().Len())
	}
	if got, _ := m.Cache().Get(task.ID); got.Title != "keep me" {
		t.Errorf("cache entry = %+v, want untouched", got)
	}
}

func TestMirror_PollStopsOnCancel(t *testing.T) {
	_, srv := newFakeServer()
	defer srv.Close()
	m := NewMirror(New(srv.URL, "test-token"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Poll(ctx, 5*time.Millisecond, nil)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Poll() did not stop after cancellation")
	}
}

func TestMirror_PollRefreshesCache(t *testing.T) {
	f, srv := newFakeServer()
	defer srv.Close()

	// Seed a task directly on the server; only polling can reveal it.
	f.tasks[7] = Task{ID: 7, Title: "server-side", Status: "pending"}

	m := NewMirror(New(srv.URL, "test-token"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Poll(ctx, 5*time.Millisecond, nil)

	deadline := time.After(time.Second)
	for m.Cache().Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("poll never refreshed the cache")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got, ok := m.Cache().Get(7); !ok || got.Title != "server-side" {
		t.Errorf("cache after poll = %+v, ok=%v", got, ok)
	}
}
