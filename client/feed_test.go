package client

import (
	"testing"
	"time"
)

func feedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func sampleTasks(now time.Time) []Task {
	return []Task{
		{ID: 1, Title: "plain", Status: "pending", CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Title: "done", Status: "completed", CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-time.Hour)},
		{ID: 3, Title: "soon", Status: "pending", DueDate: timePtr(now.Add(2 * time.Hour)), CreatedAt: now.Add(-time.Hour)},
		{ID: 4, Title: "late", Status: "in_progress", DueDate: timePtr(now.Add(-time.Hour)), CreatedAt: now.Add(-3 * time.Hour)},
	}
}

func kindsByTask(list []Notification) map[int64][]NotificationKind {
	out := make(map[int64][]NotificationKind)
	for _, n := range list {
		out[n.TaskID] = append(out[n.TaskID], n.Kind)
	}
	return out
}

func TestDerive_Kinds(t *testing.T) {
	now := feedNow()
	got := kindsByTask(Derive(sampleTasks(now), now))

	wantContains := map[int64]NotificationKind{
		2: KindCompleted,
		3: KindDueSoon,
		4: KindOverdue,
	}
	for taskID, want := range wantContains {
		found := false
		for _, k := range got[taskID] {
			if k == want {
				found = true
			}
		}
		if !found {
			t.Errorf("task %d: kinds = %v, want to contain %q", taskID, got[taskID], want)
		}
	}

	// Every task yields a created notification.
	for _, id := range []int64{1, 2, 3, 4} {
		if len(got[id]) == 0 || got[id][0] != KindCreated {
			t.Errorf("task %d: kinds = %v, want created first", id, got[id])
		}
	}

	// A completed task never shows as due_soon or overdue.
	for _, k := range got[2] {
		if k == KindDueSoon || k == KindOverdue {
			t.Errorf("completed task derived %q", k)
		}
	}
}

func TestDerive_DueSoonBoundary(t *testing.T) {
	now := feedNow()
	tests := []struct {
		name string
		due  time.Time
		want NotificationKind
	}{
		{"just inside window", now.Add(23 * time.Hour), KindDueSoon},
		{"exactly at window", now.Add(24 * time.Hour), KindDueSoon},
		{"outside window", now.Add(25 * time.Hour), ""},
		{"just past due", now.Add(-time.Minute), KindOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []Task{{ID: 1, Title: "t", Status: "pending", DueDate: &tt.due, CreatedAt: now}}
			got := Derive(tasks, now)
			var kind NotificationKind
			for _, n := range got {
				if n.Kind != KindCreated {
					kind = n.Kind
				}
			}
			if kind != tt.want {
				t.Errorf("derived kind = %q, want %q", kind, tt.want)
			}
		})
	}
}

func TestDerive_Restartable(t *testing.T) {
	now := feedNow()
	tasks := sampleTasks(now)

	first := Derive(tasks, now)
	second := Derive(tasks, now)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("notification %d differs between derivations: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func newTestFeed(tasks []Task) *Feed {
	cache := NewTaskCache()
	cache.ReplaceAll(tasks)
	f := NewFeed(cache)
	f.now = feedNow
	return f
}

func TestFeed_ReadState(t *testing.T) {
	f := newTestFeed(sampleTasks(feedNow()))

	all := f.Notifications()
	if len(all) == 0 {
		t.Fatal("no notifications derived")
	}
	if f.Unread() != len(all) {
		t.Errorf("Unread() = %d, want %d", f.Unread(), len(all))
	}

	f.MarkRead(all[0].ID)
	if f.Unread() != len(all)-1 {
		t.Errorf("Unread() after MarkRead = %d, want %d", f.Unread(), len(all)-1)
	}

	f.MarkAllRead()
	if f.Unread() != 0 {
		t.Errorf("Unread() after MarkAllRead = %d, want 0", f.Unread())
	}
}

func TestFeed_DeleteAndClear(t *testing.T) {
	f := newTestFeed(sampleTasks(feedNow()))

	all := f.Notifications()
	f.Delete(all[0].ID)
	after := f.Notifications()
	if len(after) != len(all)-1 {
		t.Errorf("Notifications() after Delete = %d, want %d", len(after), len(all)-1)
	}
	for _, n := range after {
		if n.ID == all[0].ID {
			t.Error("deleted notification still present")
		}
	}

	f.Clear()
	if got := f.Notifications(); len(got) != 0 {
		t.Errorf("Notifications() after Clear = %d, want 0", len(got))
	}
}

func TestFeed_RegeneratesOnCacheMutation(t *testing.T) {
	now := feedNow()
	cache := NewTaskCache()
	f := NewFeed(cache)
	f.now = feedNow

	if got := f.Notifications(); len(got) != 0 {
		t.Fatalf("empty cache derived %d notifications", len(got))
	}

	cache.Put(Task{ID: 9, Title: "new", Status: "pending", CreatedAt: now})
	got := f.Notifications()
	if len(got) != 1 || got[0].Kind != KindCreated || got[0].TaskID != 9 {
		t.Errorf("Notifications() = %+v, want one created for task 9", got)
	}

	cache.Remove(9)
	if got := f.Notifications(); len(got) != 0 {
		t.Errorf("Notifications() after Remove = %d, want 0", len(got))
	}
}
