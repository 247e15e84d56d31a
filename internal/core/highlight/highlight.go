// Package highlight holds the hovered word shared by the viewer and editor of
// one result session.
package highlight

import "sync"

// Event describes the state after a change.
type Event struct {
	// ID is the active word, empty when nothing is highlighted.
	ID         string
	Suppressed bool
}

// Subscriber is invoked synchronously after every state change.
type Subscriber func(Event)

// Coordinator is an observable holder for at most one highlighted word ID.
// After Suppress it ignores every further update for its lifetime.
type Coordinator struct {
	mu          sync.Mutex
	active      string
	suppressed  bool
	nextSub     int
	subscribers map[int]Subscriber
	order       []int
}

// New creates an empty coordinator.
func New() *Coordinator {
	return &Coordinator{subscribers: make(map[int]Subscriber)}
}

// Set highlights the word with the given ID. An empty ID clears.
func (c *Coordinator) Set(id string) {
	c.mu.Lock()
	if c.suppressed || c.active == id {
		c.mu.Unlock()
		return
	}
	c.active = id
	ev := Event{ID: id}
	subs := c.snapshot()
	c.mu.Unlock()

	dispatch(subs, ev)
}

// Clear removes the highlight.
func (c *Coordinator) Clear() {
	c.Set("")
}

// Active returns the highlighted word ID.
func (c *Coordinator) Active() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != ""
}

// IsActive reports whether id is the highlighted word.
func (c *Coordinator) IsActive(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return id != "" && c.active == id
}

// Suppress clears the highlight and latches the coordinator. Only the first
// call notifies.
func (c *Coordinator) Suppress() {
	c.mu.Lock()
	if c.suppressed {
		c.mu.Unlock()
		return
	}
	c.suppressed = true
	c.active = ""
	subs := c.snapshot()
	c.mu.Unlock()

	dispatch(subs, Event{Suppressed: true})
}

func (c *Coordinator) Suppressed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suppressed
}

// Subscribe registers fn and returns a function that removes it.
func (c *Coordinator) Subscribe(fn Subscriber) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.order = append(c.order, id)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// snapshot copies the live subscribers in registration order. Callers hold mu.
func (c *Coordinator) snapshot() []Subscriber {
	subs := make([]Subscriber, 0, len(c.subscribers))
	live := c.order[:0]
	for _, id := range c.order {
		if fn, ok := c.subscribers[id]; ok {
			subs = append(subs, fn)
			live = append(live, id)
		}
	}
	c.order = live
	return subs
}

func dispatch(subs []Subscriber, ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
