package burrow

import (
	"strconv"
	"time"
)

// Client is the front-end command/state machine: the library's public
// handle. It owns exactly one Backend, accepts one Command at a time, and
// dispatches per-element and completion callbacks.
//
// A Client is not safe for concurrent use by multiple goroutines.
type Client struct {
	backend Backend

	hooks     hooks
	options   Options
	verbosity Level
	timeout   time.Duration
	context   any
	watchFD   WatchFunc

	state      State
	cmd        *Command
	lastResult error
	watchList  map[int]IOEvents
	processing bool
}

// NewClient creates a Client using the named backend (registered via
// Register, typically from a backend package's init function — blank-import
// burrow/memory or burrow/httpclient to make "memory"/"http" available).
func NewClient(backendName string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		state:     StateIdle,
		verbosity: LevelAll,
		timeout:   10 * time.Second,
		watchList: make(map[int]IOEvents),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(c); err != nil {
			return nil, err
		}
	}
	backend, err := newBackend(backendName)
	if err != nil {
		return nil, err
	}
	if err := backend.Init(c); err != nil {
		return nil, err
	}
	c.backend = backend
	return c, nil
}

// Close releases the Client's backend. The Client must not be used
// afterward.
func (c *Client) Close() error {
	if c.backend == nil {
		return nil
	}
	err := c.backend.Close()
	c.backend = nil
	return err
}

// SetContext sets the Client's opaque user context.
func (c *Client) SetContext(ctx any) { c.context = ctx }

// Context returns the Client's opaque user context.
func (c *Client) Context() any { return c.context }

// SetOptions replaces the Client's Options bitset.
func (c *Client) SetOptions(opts Options) { c.options = opts }

// GetOptions returns the Client's current Options bitset.
func (c *Client) GetOptions() Options { return c.options }

// SetVerbosity sets the Client's log verbosity threshold.
func (c *Client) SetVerbosity(level Level) { c.verbosity = level }

// SetBackendOption sets a string-valued backend option.
func (c *Client) SetBackendOption(key, value string) error {
	return c.backend.SetOption(key, value)
}

// SetBackendOptionInt sets an integer-valued backend option, formatting it
// as a string for the backend's single SetOption method (see SPEC_FULL.md).
func (c *Client) SetBackendOptionInt(key string, value int32) error {
	return c.backend.SetOption(key, strconv.Itoa(int(value)))
}

// Size returns the backend's implementation-defined size measure.
func (c *Client) Size() int {
	if c.backend == nil {
		return 0
	}
	return c.backend.Size()
}

// State returns the Client's current position in its command state
// machine.
func (c *Client) State() State { return c.state }

// --- BackendContext implementation ---

func (c *Client) Message(id string, body []byte, attrs Attributes) {
	if c.hooks.Message != nil {
		c.hooks.Message(id, body, attrs)
	}
}

func (c *Client) Queue(name string) {
	if c.hooks.Queue != nil {
		c.hooks.Queue(name)
	}
}

func (c *Client) Account(name string) {
	if c.hooks.Account != nil {
		c.hooks.Account(name)
	}
}

func (c *Client) Log(level Level, message string) {
	if level < c.verbosity {
		return
	}
	if c.hooks.Log != nil {
		c.hooks.Log(level, message)
	}
}

func (c *Client) WatchFD(fd int, interest IOEvents) {
	if interest == 0 {
		delete(c.watchList, fd)
	} else {
		c.watchList[fd] = interest
	}
	if c.watchFD != nil {
		c.watchFD(fd, interest)
	}
}

// --- driver ---

// Process drives the Client's state machine forward: issuing the current
// command's first step, running the backend's Process step, and (absent a
// user-installed WithWatchFD hook) performing an internal poll over the
// backend's requested file descriptors. Returns ErrWouldBlock if the
// caller's own event loop is now expected to call EventRaised, or the
// outcome of the most recently finished command otherwise.
func (c *Client) Process() error {
	if c.processing {
		// Re-entrancy guard: a callback (typically Complete) issued a new
		// command by calling a command-issue method, which in turn called
		// Process because OptAutoProcess is set. The outer loop already
		// in progress will pick the new command up on its next iteration.
		return ErrWouldBlock
	}
	c.processing = true
	defer func() { c.processing = false }()

	for c.state != StateIdle {
		switch c.state {
		case StateStart:
			err := dispatch(c.backend, c.cmd)
			if IsWouldBlock(err) {
				c.state = StateWaiting
			} else {
				c.lastResult = err
				c.state = StateFinish
			}

		case StateReady:
			err := c.backend.Process()
			if IsWouldBlock(err) {
				c.state = StateWaiting
			} else {
				c.lastResult = err
				c.state = StateFinish
			}

		case StateWaiting:
			if c.watchFD != nil || len(c.watchList) == 0 {
				return ErrWouldBlock
			}
			ready, err := c.pollOnce()
			if err != nil {
				c.cancelLocked()
				return err
			}
			for _, r := range ready {
				if werr := c.handleEventRaised(r.fd, r.events); werr == nil {
					break
				}
			}

		case StateFinish:
			c.cmd = nil
			c.state = StateIdle
			result := c.lastResult
			if c.hooks.Complete != nil {
				c.hooks.Complete(result)
			}
		}
	}
	return c.lastResult
}

// EventRaised notifies the Client that fd became ready for the given
// events. Behavior is undefined if fd was not registered via the
// WithWatchFD hook's interest.
func (c *Client) EventRaised(fd int, events IOEvents) error {
	if werr := c.handleEventRaised(fd, events); werr != nil {
		return werr
	}
	if c.options.Has(OptAutoProcess) {
		return c.Process()
	}
	return nil
}

// handleEventRaised runs the backend's EventRaised hook and applies the
// resulting state transition (Waiting->Ready on success, Waiting->Finish on
// a non-blocking error, or stays Waiting on ErrWouldBlock). It never itself
// drives Process, so it is safe to call from inside Process's own loop.
func (c *Client) handleEventRaised(fd int, events IOEvents) error {
	if c.state != StateWaiting {
		c.Log(LevelWarn, "event raised while not waiting for fd "+strconv.Itoa(fd))
	}
	err := c.backend.EventRaised(fd, events)
	if IsWouldBlock(err) {
		return err
	}
	if err == nil {
		c.state = StateReady
	} else {
		c.lastResult = err
		c.state = StateFinish
	}
	return nil
}

// Cancel drops the current command: clears the fd-watch list, invokes the
// backend's Cancel hook, and returns to Idle. No Complete callback is fired.
// Calling Cancel while already Idle is a no-op, not an error.
func (c *Client) Cancel() error {
	if c.state == StateIdle {
		return nil
	}
	c.cancelLocked()
	return nil
}

func (c *Client) cancelLocked() {
	c.watchList = make(map[int]IOEvents)
	if c.backend != nil {
		c.backend.Cancel()
	}
	c.cmd = nil
	c.lastResult = nil
	c.state = StateIdle
}

// issue installs cmd as the current command and starts the state machine,
// driving it to completion immediately if OptAutoProcess is set.
func (c *Client) issue(cmd *Command) error {
	if c.state != StateIdle {
		return ErrInProgress
	}
	c.cmd = cmd
	c.state = StateStart
	if c.options.Has(OptAutoProcess) {
		return c.Process()
	}
	return nil
}

// requireIdle is the first check every command-issue method runs: a
// non-Idle Client rejects with ErrInProgress regardless of its arguments,
// matching burrow_create_message's state-before-null-param check order.
func (c *Client) requireIdle() error {
	if c.state != StateIdle {
		return ErrInProgress
	}
	return nil
}

func requireNonEmpty(name, value string) error {
	if value == "" {
		return newError(KindInvalidArgument, "%s must not be empty", name)
	}
	return nil
}

// --- command-issue methods ---

// CreateMessage issues a create_message command: account, queue, id, and
// body are required; attrs may be nil.
func (c *Client) CreateMessage(account, queue, id string, body []byte, attrs *Attributes) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	if err := requireNonEmpty("queue", queue); err != nil {
		return err
	}
	if err := requireNonEmpty("message id", id); err != nil {
		return err
	}
	if body == nil {
		return newError(KindInvalidArgument, "body must not be nil")
	}
	return c.issue(&Command{Kind: CmdCreateMessage, Account: account, Queue: queue, MessageID: id, Body: body, Attributes: attrs})
}

// GetMessage issues a get_message command, addressing a message by id
// regardless of its hidden state.
func (c *Client) GetMessage(account, queue, id string, filters *Filters) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	if err := requireNonEmpty("queue", queue); err != nil {
		return err
	}
	if err := requireNonEmpty("message id", id); err != nil {
		return err
	}
	return c.issue(&Command{Kind: CmdGetMessage, Account: account, Queue: queue, MessageID: id, Filters: filters})
}

// UpdateMessage issues an update_message command; attrs is required.
func (c *Client) UpdateMessage(account, queue, id string, attrs *Attributes, filters *Filters) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	if err := requireNonEmpty("queue", queue); err != nil {
		return err
	}
	if err := requireNonEmpty("message id", id); err != nil {
		return err
	}
	if attrs == nil {
		return newError(KindInvalidArgument, "attrs must not be nil")
	}
	return c.issue(&Command{Kind: CmdUpdateMessage, Account: account, Queue: queue, MessageID: id, Attributes: attrs, Filters: filters})
}

// DeleteMessage issues a delete_message command, addressing a message by id
// regardless of its hidden state.
func (c *Client) DeleteMessage(account, queue, id string, filters *Filters) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	if err := requireNonEmpty("queue", queue); err != nil {
		return err
	}
	if err := requireNonEmpty("message id", id); err != nil {
		return err
	}
	return c.issue(&Command{Kind: CmdDeleteMessage, Account: account, Queue: queue, MessageID: id, Filters: filters})
}

// GetMessages issues a get_messages command over a queue's message range.
func (c *Client) GetMessages(account, queue string, filters *Filters) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	if err := requireNonEmpty("queue", queue); err != nil {
		return err
	}
	return c.issue(&Command{Kind: CmdGetMessages, Account: account, Queue: queue, Filters: filters})
}

// UpdateMessages issues an update_messages command over a queue's message
// range; attrs is required.
func (c *Client) UpdateMessages(account, queue string, attrs *Attributes, filters *Filters) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	if err := requireNonEmpty("queue", queue); err != nil {
		return err
	}
	if attrs == nil {
		return newError(KindInvalidArgument, "attrs must not be nil")
	}
	return c.issue(&Command{Kind: CmdUpdateMessages, Account: account, Queue: queue, Attributes: attrs, Filters: filters})
}

// DeleteMessages issues a delete_messages command over a queue's message
// range.
func (c *Client) DeleteMessages(account, queue string, filters *Filters) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	if err := requireNonEmpty("queue", queue); err != nil {
		return err
	}
	return c.issue(&Command{Kind: CmdDeleteMessages, Account: account, Queue: queue, Filters: filters})
}

// GetQueues issues a get_queues command, listing an account's queues.
func (c *Client) GetQueues(account string, filters *Filters) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	return c.issue(&Command{Kind: CmdGetQueues, Account: account, Filters: filters})
}

// DeleteQueues issues a delete_queues command, deleting every matching
// queue (and the messages within) in an account. The memory backend does
// not delete hidden messages this way, so a queue holding one remains.
func (c *Client) DeleteQueues(account string, filters *Filters) error {
	if err := c.requireIdle(); err != nil {
		return err
	}
	if err := requireNonEmpty("account", account); err != nil {
		return err
	}
	return c.issue(&Command{Kind: CmdDeleteQueues, Account: account, Filters: filters})
}

// GetAccounts issues a get_accounts command, listing all accounts.
func (c *Client) GetAccounts(filters *Filters) error {
	return c.issue(&Command{Kind: CmdGetAccounts, Filters: filters})
}

// DeleteAccounts issues a delete_accounts command, deleting every matching
// account (and everything within). The memory backend does not delete
// hidden messages this way, so an account holding one remains.
func (c *Client) DeleteAccounts(filters *Filters) error {
	return c.issue(&Command{Kind: CmdDeleteAccounts, Filters: filters})
}
