// Package liveupdate debounces form edits into preview rebuilds. Input is
// always accepted immediately; only the derived preview waits for the quiet
// window to pass.
package liveupdate

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/invoicer/internal/domain/document"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/preview"
)

const (
	DefaultWindow = 200 * time.Millisecond
	MinWindow     = 50 * time.Millisecond
	MaxWindow     = 2 * time.Second
)

// Update is the product of one rebuild
type Update struct {
	Document *document.InvoiceDocument
	Preview  *preview.Preview
}

// BuildFunc derives an update from the latest form snapshot. It runs on the
// coordinator loop and should return promptly once ctx is cancelled.
type BuildFunc func(ctx context.Context, snapshot mapper.FormState, templateID string) (*Update, error)

type Options struct {
	// Window is the quiet period before a rebuild, clamped to [MinWindow, MaxWindow]
	Window     time.Duration
	TemplateID string
	Clock      Clock
	// OnUpdate is called on the loop after every successful rebuild. It must
	// not call Close.
	OnUpdate func(State)
	// OnError is called on the loop when a current rebuild fails
	OnError func(error)
}

// State is the exposed coordinator state
type State struct {
	Document   *document.InvoiceDocument
	Preview    *preview.Preview
	TemplateID string
	Enabled    bool
	Updating   bool
	LastUpdate time.Time
	// Updates counts successful rebuilds and never decreases
	Updates   uint64
	LastError error
}

type Coordinator struct {
	opts   Options
	build  BuildFunc
	logger *logger.Logger

	mu         sync.Mutex
	state      State
	snapshot   *mapper.FormState
	generation uint64
	due        uint64
	timer      Timer
	cancel     context.CancelFunc
	closed     bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// New starts a coordinator with its loop goroutine. Close releases it.
func New(opts Options, build BuildFunc, logger *logger.Logger) *Coordinator {
	opts.Window = clampWindow(opts.Window)
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}

	c := &Coordinator{
		opts:   opts,
		build:  build,
		logger: logger,
		state: State{
			TemplateID: opts.TemplateID,
			Enabled:    true,
		},
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.loop()
	return c
}

func clampWindow(w time.Duration) time.Duration {
	switch {
	case w == 0:
		return DefaultWindow
	case w < MinWindow:
		return MinWindow
	case w > MaxWindow:
		return MaxWindow
	default:
		return w
	}
}

// Window returns the effective debounce window
func (c *Coordinator) Window() time.Duration {
	return c.opts.Window
}

// Push records the latest form snapshot. It never blocks on a rebuild; any
// snapshot still waiting for its window is superseded.
func (c *Coordinator) Push(snapshot mapper.FormState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.snapshot = &snapshot
	if !c.state.Enabled {
		return
	}
	c.scheduleLocked()
}

// SetTemplate switches the preview template. A change cancels any pending or
// running rebuild.
func (c *Coordinator) SetTemplate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || id == c.state.TemplateID {
		return
	}
	c.state.TemplateID = id
	c.cancelLocked()
}

// Disable stops live updates, cancelling any pending rebuild
func (c *Coordinator) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.state.Enabled {
		return
	}
	c.state.Enabled = false
	c.cancelLocked()
}

// Enable resumes live updates and schedules a rebuild of the latest snapshot
func (c *Coordinator) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Enabled {
		return
	}
	c.state.Enabled = true
	if c.snapshot != nil {
		c.scheduleLocked()
	}
}

// Close stops the timer and the loop. Once it returns nothing fires again.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelLocked()
	close(c.done)
	c.mu.Unlock()

	c.wg.Wait()
}

// State returns a copy of the exposed state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) scheduleLocked() {
	c.generation++
	gen := c.generation
	if c.timer != nil {
		c.timer.Stop()
	}
	// a running build is already stale
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.Updating = true
	c.timer = c.opts.Clock.AfterFunc(c.opts.Window, func() { c.fire(gen) })
}

// cancelLocked drops the pending timer, aborts a running build and clears
// the updating flag. Bumping the generation makes any in-flight result stale.
func (c *Coordinator) cancelLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.Updating = false
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.due = gen
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Coordinator) loop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
			c.rebuild()
		}
	}
}

func (c *Coordinator) rebuild() {
	c.mu.Lock()
	gen := c.due
	if c.closed || gen == 0 || gen != c.generation || c.snapshot == nil || !c.state.Enabled {
		c.mu.Unlock()
		return
	}
	c.due = 0
	snapshot := *c.snapshot
	templateID := c.state.TemplateID
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	update, err := c.build(ctx, snapshot, templateID)
	cancel()

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		c.logger.Debugw("discarding superseded preview rebuild", "generation", gen)
		return
	}
	c.cancel = nil
	c.state.Updating = false
	if err != nil {
		c.state.LastError = err
		onError := c.opts.OnError
		c.mu.Unlock()
		c.logger.Debugw("preview rebuild failed", "template_id", templateID, "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	if update == nil {
		update = &Update{}
	}
	c.state.Document = update.Document
	c.state.Preview = update.Preview
	c.state.LastUpdate = c.opts.Clock.Now()
	c.state.LastError = nil
	c.state.Updates++
	state := c.state
	onUpdate := c.opts.OnUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate(state)
	}
}
