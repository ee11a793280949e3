package client

import "testing"

func TestTaskCache_PutReplaceRemove(t *testing.T) {
	c := NewTaskCache()

	c.Put(Task{ID: 1, Title: "a"})
	c.Put(Task{ID: 2, Title: "b"})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	// Replace keeps insertion order.
	c.Put(Task{ID: 1, Title: "a2"})
	tasks := c.Tasks()
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[0].Title != "a2" || tasks[1].ID != 2 {
		t.Errorf("Tasks() = %+v", tasks)
	}

	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Error("Get(1) found removed task")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	// Removing an absent id is a no-op.
	c.Remove(42)
	if c.Len() != 1 {
		t.Errorf("Len() = %d after no-op remove, want 1", c.Len())
	}
}

func TestTaskCache_ReplaceAll(t *testing.T) {
	c := NewTaskCache()
	c.Put(Task{ID: 1, Title: "old"})

	c.ReplaceAll([]Task{{ID: 5, Title: "x"}, {ID: 6, Title: "y"}})

	if _, ok := c.Get(1); ok {
		t.Error("stale task survived ReplaceAll")
	}
	tasks := c.Tasks()
	if len(tasks) != 2 || tasks[0].ID != 5 || tasks[1].ID != 6 {
		t.Errorf("Tasks() = %+v", tasks)
	}
}
