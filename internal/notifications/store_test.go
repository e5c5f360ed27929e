package notifications_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/notifications"
	"github.com/JaimeStill/steward/pkg/pagination"
)

// memStore is an in-memory notifications.System.
type memStore struct {
	mu      sync.Mutex
	items   []notifications.Notification
	created chan notifications.Notification
}

func newMemStore() *memStore {
	return &memStore{created: make(chan notifications.Notification, 16)}
}

func (m *memStore) Handler() *notifications.Handler { return nil }

func (m *memStore) List(_ context.Context, user uuid.UUID, page pagination.PageRequest, unread bool) (*pagination.PageResult[notifications.Notification], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []notifications.Notification
	for _, n := range m.items {
		if n.UserID == user && (!unread || n.ReadAt == nil) {
			out = append(out, n)
		}
	}
	result := pagination.NewPageResult(out, len(out), page.Page, page.PageSize)
	return &result, nil
}

func (m *memStore) UnreadCount(_ context.Context, user uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, n := range m.items {
		if n.UserID == user && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (m *memStore) MarkRead(_ context.Context, user, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == user {
			if m.items[i].ReadAt == nil {
				now := time.Now()
				m.items[i].ReadAt = &now
			}
			return nil
		}
	}
	return notifications.ErrNotFound
}

func (m *memStore) MarkAllRead(_ context.Context, user uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	now := time.Now()
	for i := range m.items {
		if m.items[i].UserID == user && m.items[i].ReadAt == nil {
			m.items[i].ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (m *memStore) Delete(_ context.Context, user, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.items {
		if n.ID == id && n.UserID == user {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return notifications.ErrNotFound
}

func (m *memStore) Create(_ context.Context, cmd notifications.CreateCommand) (*notifications.Notification, error) {
	n := notifications.Notification{
		ID:           uuid.New(),
		UserID:       cmd.UserID,
		Kind:         cmd.Kind,
		Title:        cmd.Title,
		Body:         cmd.Body,
		ResourceType: cmd.ResourceType,
		ResourceID:   cmd.ResourceID,
		CreatedAt:    time.Now(),
	}

	m.mu.Lock()
	m.items = append(m.items, n)
	m.mu.Unlock()

	m.created <- n
	return &n, nil
}
