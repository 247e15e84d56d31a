package tui

import (
	"time"

	"github.com/colonyops/khatt/internal/core/notify"
)

const (
	defaultToastTTL   = 4 * time.Second
	errorToastTTL     = 8 * time.Second
	defaultMaxToasts  = 4
	toastTickInterval = 100 * time.Millisecond
	maxToastWidth     = 48
)

type toast struct {
	notification notify.Notification
	remaining    time.Duration
}

// toastController keeps the visible toasts and counts down their lifetime.
// Errors stay on screen twice as long as other levels.
type toastController struct {
	toasts  []toast
	max     int
	ticking bool
}

func newToastController() *toastController {
	return &toastController{max: defaultMaxToasts}
}

// Push appends n, evicting the oldest toast once the stack is full.
func (c *toastController) Push(n notify.Notification) {
	ttl := defaultToastTTL
	if n.Level == notify.LevelError {
		ttl = errorToastTTL
	}
	c.toasts = append(c.toasts, toast{notification: n, remaining: ttl})
	if len(c.toasts) > c.max {
		c.toasts = c.toasts[len(c.toasts)-c.max:]
	}
}

// Tick ages every toast by d, drops the expired ones and reports whether any
// are left. The tick chain stops when it returns false.
func (c *toastController) Tick(d time.Duration) bool {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
	c.ticking = len(alive) > 0
	return c.ticking
}

// Dismiss removes the newest toast.
func (c *toastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

func (c *toastController) HasToasts() bool {
	return len(c.toasts) > 0
}

func (c *toastController) Toasts() []toast {
	return c.toasts
}

// startTicking marks the tick chain as running and reports whether the
// caller must schedule the first tick.
func (c *toastController) startTicking() bool {
	if c.ticking || len(c.toasts) == 0 {
		return false
	}
	c.ticking = true
	return true
}
