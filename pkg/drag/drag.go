// Package drag implements the drag-assignment state machine.
//
// A controller runs one drag session at a time. Starting a drag on a
// bookmark leaf moves the machine from Idle to Dragging and kicks off
// enrichment on its own goroutine; the enriched link becomes the session's
// carried payload once the fetch resolves. Dropping on a group attaches the
// payload (if it has arrived) and ends the session; dropping anywhere else,
// or cancelling, discards it. A fetch that resolves after the session has
// ended is discarded, never attached.
package drag

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tilemarks/tilemarks/pkg/bookmarks"
	"github.com/tilemarks/tilemarks/pkg/errors"
	"github.com/tilemarks/tilemarks/pkg/groups"
)

// State is the controller's current state.
type State int

const (
	// Idle means no drag session is active.
	Idle State = iota

	// Dragging means a session is active, possibly still waiting for its
	// carried payload to arrive from enrichment.
	Dragging
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Enricher produces the carried QuickLink for a dragged bookmark.
// Implementations must not fail: partial enrichment still yields a link.
type Enricher interface {
	Enrich(ctx context.Context, id, title, url string) groups.QuickLink
}

// Controller drives drag sessions against a group store.
// Safe for concurrent use; only one session is active at a time.
type Controller struct {
	mu sync.Mutex

	store    *groups.Store
	enricher Enricher
	log      *log.Logger

	state     State
	sessionID string
	payload   *groups.QuickLink

	// enriched signals payload arrival for the current session.
	// Closed when the payload lands or the session ends without one.
	enriched chan struct{}
}

// NewController creates a Controller over the given store and enricher.
func NewController(store *groups.Store, enricher Enricher, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		store:    store,
		enricher: enricher,
		log:      logger,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Carrying reports whether the active session's payload has arrived.
func (c *Controller) Carrying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payload != nil
}

// StartDrag begins a session for the given bookmark node.
//
// Only leaf nodes with a URL are draggable. Enrichment starts on its own
// goroutine; the session is Dragging immediately, with the payload arriving
// whenever the fetch resolves. Starting a new drag while one is active
// implicitly cancels the previous session.
func (c *Controller) StartDrag(ctx context.Context, node *bookmarks.Node) (string, error) {
	if node == nil || !node.IsLink() {
		return "", errors.New(errors.ErrCodeInvalidInput, "only bookmark links can be dragged")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Dragging {
		c.endSessionLocked()
	}

	id := uuid.NewString()
	c.state = Dragging
	c.sessionID = id
	c.payload = nil
	c.enriched = make(chan struct{})

	go c.enrich(ctx, id, node.ID, node.Title, node.URL)

	c.log.Debug("drag started", "session", id, "bookmark", node.ID)
	return id, nil
}

// enrich runs off the caller's goroutine; the user keeps dragging while the
// fetch is outstanding.
func (c *Controller) enrich(ctx context.Context, sessionID, id, title, url string) {
	link := c.enricher.Enrich(ctx, id, title, url)

	c.mu.Lock()
	defer c.mu.Unlock()

	// The session may have ended or been replaced while the fetch was in
	// flight. The result is simply discarded then.
	if c.state != Dragging || c.sessionID != sessionID {
		c.log.Debug("enrichment resolved after session end, discarding", "session", sessionID)
		return
	}

	c.payload = &link
	close(c.enriched)
}

// Hover is side-effect-free: it only reports whether the target is a valid
// drop target, for visual feedback.
func (c *Controller) Hover(targetGroupID string) bool {
	c.mu.Lock()
	if c.state != Dragging {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	_, ok := c.store.Group(targetGroupID)
	return ok
}

// Drop ends the session over the given group. If the carried payload has
// arrived it is attached (a duplicate link ID in the target is a no-op, but
// the session still ends). Dropping on an unknown group discards the
// payload. Drop on an idle controller reports no attachment.
func (c *Controller) Drop(ctx context.Context, targetGroupID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Dragging {
		return false
	}

	payload := c.payload
	c.endSessionLocked()

	if payload == nil {
		return false
	}
	if _, ok := c.store.Group(targetGroupID); !ok {
		return false
	}

	before, _ := c.store.Group(targetGroupID)
	if err := c.store.AddLink(ctx, targetGroupID, *payload); err != nil {
		c.log.Warn("drop attach failed", "group", targetGroupID, "err", err)
		return false
	}
	return !before.HasLink(payload.ID)
}

// Cancel ends the session without any mutation.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Dragging {
		c.endSessionLocked()
	}
}

// WaitEnriched blocks until the active session's payload arrives, the
// session ends, or the context is done. It exists for callers that want to
// drive the machine synchronously (CLI, tests); UI callers just keep
// polling Carrying.
func (c *Controller) WaitEnriched(ctx context.Context) {
	c.mu.Lock()
	ch := c.enriched
	c.mu.Unlock()

	if ch == nil {
		return
	}
	select {
	case <-ch:
	case <-ctx.Done():
	}
}

// endSessionLocked resets to Idle. Callers hold c.mu.
func (c *Controller) endSessionLocked() {
	if c.enriched != nil && c.payload == nil {
		// Unblock any WaitEnriched callers on a session that never
		// received its payload.
		close(c.enriched)
	}
	c.state = Idle
	c.sessionID = ""
	c.payload = nil
	c.enriched = nil
}
