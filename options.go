package burrow

import "time"

// Options is a bitset of Client behaviors, mirroring burrow_options_t from
// the original library.
type Options uint32

const (
	// OptAutoProcess makes every command-issue method call Process itself
	// before returning, so a synchronous caller observes callbacks
	// dispatched inline before control returns.
	OptAutoProcess Options = 1 << iota

	// OptCopyStrings is accepted but has no effect: every string passed
	// to this library is already owned by the caller for the duration of
	// the call (Go value/slice semantics), so there is nothing to copy.
	// Kept only so ported callers that set this option don't need
	// special-casing.
	OptCopyStrings
)

// Has reports whether every bit of other is set in o.
func (o Options) Has(other Options) bool {
	return o&other == other
}

// ClientOption configures a Client at construction time, in the style of
// eventloop.LoopOption/resolveLoopOptions.
type ClientOption interface {
	apply(c *Client) error
}

type clientOptionFunc func(c *Client) error

func (f clientOptionFunc) apply(c *Client) error { return f(c) }

// WithOptions sets the Client's Options bitset.
func WithOptions(opts Options) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.options = opts
		return nil
	})
}

// WithVerbosity sets the Client's log verbosity threshold. Defaults to
// LevelAll.
func WithVerbosity(level Level) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.verbosity = level
		return nil
	})
}

// WithTimeout sets the duration the internal poll will wait for I/O before
// canceling the current command as KindTimedOut. Defaults to 10 seconds.
// Has no effect once WithWatchFD is used, since the internal poll is then
// never entered.
func WithTimeout(d time.Duration) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.timeout = d
		return nil
	})
}

// WithContext sets the Client's opaque user context, retrievable via
// Client.Context. It is never passed to a callback directly; callbacks are
// plain closures and can already capture whatever context they need.
func WithContext(ctx any) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.context = ctx
		return nil
	})
}

// WithWatchFD installs a user-provided event loop integration hook. When
// set, Process never polls internally: it returns ErrWouldBlock as soon as
// the fd-watch list is non-empty, and the caller is expected to invoke
// Client.EventRaised when a registered fd becomes ready.
func WithWatchFD(fn WatchFunc) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.watchFD = fn
		return nil
	})
}

// WithMessageFunc registers the per-message callback.
func WithMessageFunc(fn MessageFunc) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.hooks.Message = fn
		return nil
	})
}

// WithQueueFunc registers the per-queue-name callback.
func WithQueueFunc(fn QueueFunc) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.hooks.Queue = fn
		return nil
	})
}

// WithAccountFunc registers the per-account-name callback.
func WithAccountFunc(fn AccountFunc) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.hooks.Account = fn
		return nil
	})
}

// WithLogFunc registers the log callback.
func WithLogFunc(fn LogFunc) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.hooks.Log = fn
		return nil
	})
}

// WithCompleteFunc registers the exactly-once end-of-command callback.
func WithCompleteFunc(fn CompleteFunc) ClientOption {
	return clientOptionFunc(func(c *Client) error {
		c.hooks.Complete = fn
		return nil
	})
}
