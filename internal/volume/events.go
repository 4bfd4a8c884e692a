package volume

import (
	"time"

	"github.com/moby/pubsub"
)

// EventKind names the registry mutation behind an Event
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventEjected   EventKind = "ejected"
	EventDeleted   EventKind = "deleted"
	EventUnmounted EventKind = "unmounted"
)

// Event is published after every change to the set of registered volumes
type Event struct {
	Kind      EventKind `json:"kind"`
	Name      string    `json:"name"`
	MountPath string    `json:"mount_path"`
	Time      time.Time `json:"time"`
}

const (
	publishTimeout = 100 * time.Millisecond
	eventBuffer    = 64
)

func newPublisher() *pubsub.Publisher {
	return pubsub.NewPublisher(publishTimeout, eventBuffer)
}

// Subscribe returns a channel receiving Event values until Unsubscribe or Close
func (r *Registry) Subscribe() chan interface{} {
	return r.events.Subscribe()
}

// Unsubscribe stops delivery to ch and closes it
func (r *Registry) Unsubscribe(ch chan interface{}) {
	r.events.Evict(ch)
}

func (r *Registry) publish(kind EventKind, name string) {
	r.events.Publish(Event{
		Kind:      kind,
		Name:      name,
		MountPath: r.MountPath(name),
		Time:      time.Now(),
	})
}
