package client

import "context"

// Mirror couples the API client with the local cache: every successful
// mutation is applied to the cache without re-fetching the full list,
// and a failed request leaves the cache exactly as it was.
type Mirror struct {
	api   *Client
	cache *TaskCache
}

func NewMirror(api *Client) *Mirror {
	return &Mirror{api: api, cache: NewTaskCache()}
}

// Cache exposes the underlying mirror for reads and feed derivation.
func (m *Mirror) Cache() *TaskCache {
	return m.cache
}

// Refresh replaces the cache with the server's current list.
func (m *Mirror) Refresh(ctx context.Context) error {
	list, err := m.api.List(ctx, "")
	if err != nil {
		return err
	}
	m.cache.ReplaceAll(list)
	return nil
}

func (m *Mirror) Create(ctx context.Context, body CreateTask) (Task, error) {
	t, err := m.api.Create(ctx, body)
	if err != nil {
		return Task{}, err
	}
	m.cache.Put(t)
	return t, nil
}

func (m *Mirror) Update(ctx context.Context, id int64, body UpdateTask) (Task, error) {
	t, err := m.api.Update(ctx, id, body)
	if err != nil {
		return Task{}, err
	}
	m.cache.Put(t)
	return t, nil
}

func (m *Mirror) UpdateStatus(ctx context.Context, id int64, status string) (Task, error) {
	t, err := m.api.UpdateStatus(ctx, id, status)
	if err != nil {
		return Task{}, err
	}
	m.cache.Put(t)
	return t, nil
}

func (m *Mirror) Delete(ctx context.Context, id int64) error {
	if err := m.api.Delete(ctx, id); err != nil {
		return err
	}
	m.cache.Remove(id)
	return nil
}
