package events

import (
	"context"
	"sync"
)

// Recorded pairs an event with the user it was addressed to.
type Recorded struct {
	UserID int64
	Event  Event
}

// Recorder is a Publisher that remembers everything it was asked to send.
// Used in tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Recorded
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, userID int64, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Recorded{UserID: userID, Event: ev})
}

// Sent returns a copy of everything published so far.
func (r *Recorder) Sent() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.sent))
	copy(out, r.sent)
	return out
}
