// Package events delivers task change notifications to the owner's
// private channel. Delivery is best-effort: a failed publish is logged
// and never fails the mutation that produced it.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/YoussoufEfkiren/ToDoList/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Kind identifies what happened to the task.
type Kind string

const (
	KindCreated       Kind = "task.created"
	KindUpdated       Kind = "task.updated"
	KindStatusChanged Kind = "task.status_changed"
	KindDeleted       Kind = "task.deleted"
)

func (k Kind) message() string {
	switch k {
	case KindCreated:
		return "Task created successfully"
	case KindUpdated:
		return "Task updated successfully"
	case KindStatusChanged:
		return "Task status updated successfully"
	case KindDeleted:
		return "Task deleted successfully"
	}
	return "Task changed"
}

// TaskSummary is the public slice of a task carried in an event.
type TaskSummary struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Event is the payload sent to the owner's channel.
type Event struct {
	Kind      Kind        `json:"event"`
	Task      TaskSummary `json:"task"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent builds an event from a task.
func NewEvent(kind Kind, t dom.Task) Event {
	return Event{
		Kind: kind,
		Task: TaskSummary{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
		},
		Message:   kind.message(),
		Timestamp: time.Now().UTC(),
	}
}

// Publisher sends an event to one user's private channel.
type Publisher interface {
	Publish(ctx context.Context, userID int64, ev Event)
}

// UserChannel is the Pub/Sub channel name for a user's events.
func UserChannel(userID int64) string {
	return "user." + strconv.FormatInt(userID, 10)
}

// RedisPublisher publishes events over Redis Pub/Sub.
type RedisPublisher struct {
	rdb *redis.Client
	log *logrus.Logger
}

// NewRedisPublisher returns a new RedisPublisher.
func NewRedisPublisher(rdb *redis.Client, log *logrus.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, log: log}
}

// Publish marshals the event and fires it at user.{id}. Errors are logged
// and swallowed.
func (p *RedisPublisher) Publish(ctx context.Context, userID int64, ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		p.log.WithError(err).Warn("event marshal failed")
		return
	}
	if err := p.rdb.Publish(ctx, UserChannel(userID), b).Err(); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"event":   string(ev.Kind),
		}).Warn("event publish failed")
	}
}
