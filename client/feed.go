package client

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// NotificationKind classifies a derived notification.
type NotificationKind string

const (
	KindCreated   NotificationKind = "created"
	KindCompleted NotificationKind = "completed"
	KindDueSoon   NotificationKind = "due_soon"
	KindOverdue   NotificationKind = "overdue"
)

// dueSoonWindow is how far ahead a due date counts as "due soon".
const dueSoonWindow = 24 * time.Hour

// Notification is a derived, ephemeral record summarizing a task event.
// Nothing here is persisted anywhere: the sequence is regenerated from
// the task cache on every cycle and read state lives only in the Feed.
type Notification struct {
	ID        string
	Kind      NotificationKind
	Message   string
	TaskID    int64
	Read      bool
	CreatedAt time.Time
}

// Derive produces the notification sequence for a task list at a given
// instant. It is a pure function: same tasks and now, same output, so
// the sequence is finite and restartable by construction. IDs are
// deterministic per (task, kind).
func Derive(tasks []Task, now time.Time) []Notification {
	var out []Notification
	add := func(t Task, kind NotificationKind, msg string, at time.Time) {
		out = append(out, Notification{
			ID:        fmt.Sprintf("notif-%d-%s", t.ID, kind),
			Kind:      kind,
			Message:   msg,
			TaskID:    t.ID,
			CreatedAt: at,
		})
	}

	for _, t := range tasks {
		add(t, KindCreated, fmt.Sprintf("New task created: %q", t.Title), t.CreatedAt)

		if t.Status == "completed" {
			add(t, KindCompleted, fmt.Sprintf("Task completed: %q", t.Title), t.UpdatedAt)
			continue
		}
		if t.DueDate == nil {
			continue
		}
		switch {
		case t.DueDate.Before(now):
			add(t, KindOverdue, fmt.Sprintf("Task overdue: %q", t.Title), *t.DueDate)
		case t.DueDate.Sub(now) <= dueSoonWindow:
			add(t, KindDueSoon, fmt.Sprintf("Task due soon: %q", t.Title), now)
		}
	}
	return out
}

// Feed layers local-only read/deleted state over the derived sequence.
// That state is lost on restart, exactly like a page reload.
type Feed struct {
	cache *TaskCache
	now   func() time.Time

	mu      sync.Mutex
	read    map[string]bool
	removed map[string]bool
}

func NewFeed(cache *TaskCache) *Feed {
	return &Feed{
		cache:   cache,
		now:     time.Now,
		read:    make(map[string]bool),
		removed: make(map[string]bool),
	}
}

// Notifications regenerates the feed from the current cache, minus
// locally deleted entries, with local read flags applied.
func (f *Feed) Notifications() []Notification {
	derived := Derive(f.cache.Tasks(), f.now())

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, 0, len(derived))
	for _, n := range derived {
		if f.removed[n.ID] {
			continue
		}
		n.Read = f.read[n.ID]
		out = append(out, n)
	}
	return out
}

// Unread counts notifications not yet marked read.
func (f *Feed) Unread() int {
	count := 0
	for _, n := range f.Notifications() {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks one notification read. Local only, no server call.
func (f *Feed) MarkRead(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read[id] = true
}

// MarkAllRead marks every current notification read.
func (f *Feed) MarkAllRead() {
	derived := Derive(f.cache.Tasks(), f.now())
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range derived {
		f.read[n.ID] = true
	}
}

// Delete hides one notification until the underlying task changes shape.
func (f *Feed) Delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed[id] = true
}

// Clear hides every current notification.
func (f *Feed) Clear() {
	derived := Derive(f.cache.Tasks(), f.now())
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range derived {
		f.removed[n.ID] = true
	}
}

// DefaultPollInterval matches the UI's 30-second refresh cycle.
const DefaultPollInterval = 30 * time.Second

// Poll refreshes the mirror on the given interval until ctx is
// cancelled. The ticker is stopped on the way out; cancellation leaks
// nothing. Refresh errors are reported to onError (may be nil) and do
// not stop polling — the cache simply keeps its last good state.
func (m *Mirror) Poll(ctx context.Context, interval time.Duration, onError func(error)) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
