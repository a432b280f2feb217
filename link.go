package hdmi

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
)

// LinkState is the life-cycle state of the display link.
type LinkState int32

const (
	LinkDisabled  LinkState = 0
	LinkActive    LinkState = 1
	LinkSuspended LinkState = 2
)

// String returns a human-readable name of the state.
func (s LinkState) String() string {
	switch s {
	case LinkDisabled:
		return "disabled"
	case LinkActive:
		return "active"
	case LinkSuspended:
		return "suspended"
	default:
		return fmt.Sprintf("LinkState(%d)", int32(s))
	}
}

// normalize maps unknown values to LinkDisabled.
func (s LinkState) normalize() LinkState {
	switch s {
	case LinkActive, LinkSuspended:
		return s
	default:
		return LinkDisabled
	}
}

// Stream is a running PCM stream that a link loss must stop.
type Stream interface {
	// Stop halts the stream as disconnected. The stream must not resume without a new negotiation.
	Stop() error
}

// LinkEvent is a display link state change, optionally carrying the active stream.
type LinkEvent struct {
	State  LinkState
	Stream Stream
}

// LinkHandler receives link events.
type LinkHandler func(LinkEvent)

// Notifier delivers link events to registered handlers.
type Notifier interface {
	// Register adds a handler and returns the function that removes it.
	Register(h LinkHandler) (unregister func())
}

// PowerLink controls the HDMI companion chip between the SoC and the connector.
type PowerLink interface {
	// SetPower switches the sink supply and hotplug detection.
	SetPower(on bool) error
	// SetDataLink enables the level shifters of the TMDS/DDC lines.
	SetDataLink(enable bool) error
}

// LinkNotifier is an in-process Notifier. Publish delivers events synchronously,
// in registration order, on the caller's goroutine.
type LinkNotifier struct {
	mu       sync.RWMutex
	handlers map[uint64]LinkHandler
	nextID   uint64
}

// NewLinkNotifier returns an empty notifier.
func NewLinkNotifier() *LinkNotifier {
	return &LinkNotifier{handlers: make(map[uint64]LinkHandler)}
}

// Register adds a handler. The returned function removes it and is safe to call more than once.
func (n *LinkNotifier) Register(h LinkHandler) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = h
	n.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.handlers, id)
			n.mu.Unlock()
		})
	}
}

// Publish delivers ev to every registered handler and returns once all of them have returned.
func (n *LinkNotifier) Publish(ev LinkEvent) {
	n.mu.RLock()
	ids := make([]uint64, 0, len(n.handlers))
	for id := range n.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	handlers := make([]LinkHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, n.handlers[id])
	}
	n.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Len returns the number of registered handlers.
func (n *LinkNotifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.handlers)
}

// output is an audio output stage the coordinator must silence on link loss.
// haltOutputLocked is called with the coordinator lock held.
type output interface {
	haltOutputLocked()
}

// CoordinatorConfig holds optional settings of a Coordinator.
type CoordinatorConfig struct {
	// Logger receives power gate and stream stop failures. Defaults to discarding.
	Logger *log.Logger
}

// Coordinator keeps audio in step with the display link: audio never plays unless the link is active.
type Coordinator struct {
	notifyMu   sync.Mutex // Serializes Notify; taken before mu
	mu         sync.Mutex
	state      LinkState
	power      PowerLink
	outputs    []output
	logger     *log.Logger
	unregister func()
}

// NewCoordinator returns a coordinator in the LinkDisabled state. power may be nil when the board
// has no companion chip.
func NewCoordinator(power PowerLink, config *CoordinatorConfig) *Coordinator {
	c := &Coordinator{
		state: LinkDisabled,
		power: power,
	}

	if config != nil && config.Logger != nil {
		c.logger = config.Logger
	} else {
		c.logger = log.New(io.Discard, "", 0)
	}

	return c
}

// Register subscribes the coordinator to n. A previous subscription is dropped.
func (c *Coordinator) Register(n Notifier) {
	unregister := n.Register(c.Notify)

	c.mu.Lock()
	prev := c.unregister
	c.unregister = unregister
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Close removes the coordinator from its notifier.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	unregister := c.unregister
	c.unregister = nil
	c.mu.Unlock()

	if unregister != nil {
		unregister()
	}

	return nil
}

// State returns the current link state.
func (c *Coordinator) State() LinkState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Notify applies a link state change. All side effects have completed when it returns.
//
// Leaving the active state silences the attached outputs before anything else, so no
// negotiation can enable audio afterwards. The stream is stopped without the coordinator
// lock held: stopping it may trigger the codec. A stream given with a non-active state is
// always stopped, while the companion chip is only switched on a state change.
func (c *Coordinator) Notify(ev LinkEvent) {
	state := ev.State.normalize()

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	prev := c.state
	changed := state != prev
	c.state = state

	if state == LinkActive {
		if changed {
			if err := c.setSink(true); err != nil {
				c.logger.Printf("link %s -> %s: %v", prev, state, err)
			}
		}
		c.mu.Unlock()

		return
	}

	for _, o := range c.outputs {
		o.haltOutputLocked()
	}
	c.mu.Unlock()

	// The stream stops before the companion chip is switched off.
	if ev.Stream != nil {
		if err := ev.Stream.Stop(); err != nil {
			c.logger.Printf("link %s -> %s: stop stream: %v", prev, state, err)
		}
	}

	if !changed {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.setSink(false); err != nil {
		c.logger.Printf("link %s -> %s: %v", prev, state, err)
	}
}

// setSink drives both companion lines. Each step runs regardless of the other's result.
func (c *Coordinator) setSink(on bool) error {
	if c.power == nil {
		return nil
	}

	var errs []error
	if err := c.power.SetPower(on); err != nil {
		errs = append(errs, fmt.Errorf("set sink power %t: %w", on, err))
	}

	if err := c.power.SetDataLink(on); err != nil {
		errs = append(errs, fmt.Errorf("set data link %t: %w", on, err))
	}

	return errors.Join(errs...)
}

// whileActive runs fn under the coordinator lock if the link is active.
func (c *Coordinator) whileActive(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != LinkActive {
		return fmt.Errorf("%w (%s)", ErrLinkInactive, c.state)
	}

	return fn()
}

// locked runs fn under the coordinator lock.
func (c *Coordinator) locked(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return fn()
}

func (c *Coordinator) attach(o output) {
	c.mu.Lock()
	c.outputs = append(c.outputs, o)
	c.mu.Unlock()
}

func (c *Coordinator) detach(o output) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, cur := range c.outputs {
		if cur == o {
			c.outputs = append(c.outputs[:i], c.outputs[i+1:]...)

			return
		}
	}
}
