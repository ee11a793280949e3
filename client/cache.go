package client

import "sync"

// TaskCache is the local mirror of the server's task list, keyed by ID.
// It only ever changes in response to a successful server response, so a
// failed request leaves it untouched.
type TaskCache struct {
	mu    sync.RWMutex
	tasks map[int64]Task
	order []int64
}

func NewTaskCache() *TaskCache {
	return &TaskCache{tasks: make(map[int64]Task)}
}

// Put inserts or replaces a task.
func (c *TaskCache) Put(t Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tasks[t.ID]; !ok {
		c.order = append(c.order, t.ID)
	}
	c.tasks[t.ID] = t
}

// Remove deletes a task from the mirror.
func (c *TaskCache) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tasks[id]; !ok {
		return
	}
	delete(c.tasks, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// ReplaceAll swaps the whole mirror for a fresh server list.
func (c *TaskCache) ReplaceAll(list []Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = make(map[int64]Task, len(list))
	c.order = c.order[:0]
	for _, t := range list {
		c.tasks[t.ID] = t
		c.order = append(c.order, t.ID)
	}
}

// Get returns the cached task, if present.
func (c *TaskCache) Get(id int64) (Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[id]
	return t, ok
}

// Tasks returns the mirror's tasks in insertion order.
func (c *TaskCache) Tasks() []Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Task, 0, len(c.order))
	for _, id := range c.order {
		if t, ok := c.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Len reports how many tasks are mirrored.
func (c *TaskCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}
