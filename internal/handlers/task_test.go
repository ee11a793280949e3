package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YoussoufEfkiren/ToDoList/internal/auth"
	"github.com/YoussoufEfkiren/ToDoList/internal/dto"
	"github.com/YoussoufEfkiren/ToDoList/internal/events"
	"github.com/YoussoufEfkiren/ToDoList/internal/logger"
	"github.com/YoussoufEfkiren/ToDoList/internal/repo"
	"github.com/YoussoufEfkiren/ToDoList/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	tokenA = "token-a"
	tokenB = "token-b"
)

// staticTokens resolves fixed test tokens without Redis.
type staticTokens map[string]int64

func (s staticTokens) GetUserID(_ context.Context, token string) (int64, bool) {
	id, ok := s[token]
	return id, ok
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewTaskService(repo.NewMemTaskRepo(), nil, events.NewRecorder())
	h := NewTaskHandler(svc, logger.New("test"))

	r := gin.New()
	api := r.Group("/api/v1", auth.RequireToken(staticTokens{tokenA: 1, tokenB: 2}))
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/status/:status", h.ListByStatus)
	api.GET("/tasks/:id", h.GetByID)
	api.PUT("/tasks/:id", h.Update)
	api.PATCH("/tasks/:id/status", h.UpdateStatus)
	api.DELETE("/tasks/:id", h.Delete)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTask(t *testing.T, r *gin.Engine, token string, body map[string]any) dto.TaskResponse {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/v1/tasks", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp dto.TaskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp
}

func TestTasks_RequireAuth(t *testing.T) {
	r := newTestRouter()

	for _, tok := range []string{"", "bogus"} {
		w := doRequest(t, r, http.MethodGet, "/api/v1/tasks", tok, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", tok, w.Code)
		}
	}
}

func TestCreateTask_HTTP(t *testing.T) {
	r := newTestRouter()

	resp := createTask(t, r, tokenA, map[string]any{"title": "Buy milk"})
	if resp.Status != "pending" {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	if resp.OwnerID != 1 {
		t.Errorf("owner_id = %d, want 1", resp.OwnerID)
	}

	// Validation failure is 422 with field detail.
	w := doRequest(t, r, http.MethodPost, "/api/v1/tasks", tokenA, map[string]any{"title": "  "})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty title: status = %d, want 422", w.Code)
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if _, ok := body.Fields["title"]; !ok {
		t.Errorf("422 body missing title field detail: %s", w.Body.String())
	}

	// Unparseable due date is a 422 too.
	w = doRequest(t, r, http.MethodPost, "/api/v1/tasks", tokenA, map[string]any{"title": "x", "due_date": "soonish"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad due_date: status = %d, want 422", w.Code)
	}
}

func TestListTasks_ScopedAndFiltered(t *testing.T) {
	r := newTestRouter()
	createTask(t, r, tokenA, map[string]any{"title": "a1"})
	createTask(t, r, tokenA, map[string]any{"title": "a2", "status": "completed"})
	createTask(t, r, tokenB, map[string]any{"title": "b1"})

	w := doRequest(t, r, http.MethodGet, "/api/v1/tasks", tokenA, nil)
	var list dto.ListTasksResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Tasks) != 2 {
		t.Errorf("list(A) has %d tasks, want 2", len(list.Tasks))
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/tasks?status=completed", tokenA, nil)
	list = dto.ListTasksResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Tasks) != 1 || list.Tasks[0].Title != "a2" {
		t.Errorf("filtered list = %+v", list.Tasks)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/tasks/status/completed", tokenA, nil)
	list = dto.ListTasksResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Tasks) != 1 {
		t.Errorf("status path list has %d tasks, want 1", len(list.Tasks))
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/tasks?status=archived", tokenA, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad filter: status = %d, want 400", w.Code)
	}
}

func TestGetTask_OwnershipCodes(t *testing.T) {
	r := newTestRouter()
	created := createTask(t, r, tokenA, map[string]any{"title": "mine"})

	tests := []struct {
		name  string
		token string
		path  string
		want  int
	}{
		{"owner reads own task", tokenA, taskPath(created.ID), http.StatusOK},
		{"non-owner is forbidden", tokenB, taskPath(created.ID), http.StatusForbidden},
		{"absent id is not found", tokenA, "/api/v1/tasks/9999", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodGet, tt.path, tt.token, nil)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestUpdateTask_HTTP(t *testing.T) {
	r := newTestRouter()
	created := createTask(t, r, tokenA, map[string]any{
		"title": "original", "due_date": "2030-01-02",
	})

	// Partial update touches only what is present.
	w := doRequest(t, r, http.MethodPut, taskPath(created.ID), tokenA, map[string]any{"description": "x"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp dto.TaskResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Title != "original" || resp.Description != "x" || resp.DueDate == nil {
		t.Errorf("partial update result = %+v", resp)
	}

	// Explicit null clears the due date.
	w = doRequest(t, r, http.MethodPut, taskPath(created.ID), tokenA, map[string]any{"due_date": nil})
	resp = dto.TaskResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.DueDate != nil {
		t.Errorf("due_date = %v after explicit null, want nil", resp.DueDate)
	}

	// Non-owner gets 403.
	w = doRequest(t, r, http.MethodPut, taskPath(created.ID), tokenB, map[string]any{"title": "stolen"})
	if w.Code != http.StatusForbidden {
		t.Errorf("non-owner update: status = %d, want 403", w.Code)
	}
}

func TestUpdateStatus_HTTP(t *testing.T) {
	r := newTestRouter()
	created := createTask(t, r, tokenA, map[string]any{"title": "work"})

	w := doRequest(t, r, http.MethodPatch, taskPath(created.ID)+"/status", tokenA, map[string]any{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status: status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp dto.TaskResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "completed" {
		t.Errorf("status = %q, want completed", resp.Status)
	}

	w = doRequest(t, r, http.MethodPatch, taskPath(created.ID)+"/status", tokenA, map[string]any{"status": "archived"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad status value: status = %d, want 422", w.Code)
	}
}

func TestDeleteTask_HTTP(t *testing.T) {
	r := newTestRouter()
	created := createTask(t, r, tokenA, map[string]any{"title": "bye"})

	w := doRequest(t, r, http.MethodDelete, taskPath(created.ID), tokenB, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-owner delete: status = %d, want 403", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, taskPath(created.ID), tokenA, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete: status = %d, want 200", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, taskPath(created.ID), tokenA, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func taskPath(id int64) string {
	return "/api/v1/tasks/" + jsonNumber(id)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
