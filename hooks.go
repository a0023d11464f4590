package burrow

// MessageFunc is invoked once per message produced by a command, in the
// order the backend produces them. attrs.TTL/attrs.Hide are relative to the
// instant the backend computed them, not absolute timestamps.
type MessageFunc func(id string, body []byte, attrs Attributes)

// QueueFunc is invoked once per queue name produced by a command.
type QueueFunc func(name string)

// AccountFunc is invoked once per account name produced by a command.
type AccountFunc func(name string)

// LogFunc receives a pre-formatted diagnostic string and its severity. The
// library chooses formatting; LogFunc only chooses a transport (stderr,
// a structured logger, discard).
type LogFunc func(level Level, message string)

// CompleteFunc is invoked exactly once per command that reaches FINISH
// (i.e. every command except one ended by Cancel or by a failed or
// timed-out internal poll), strictly after all per-element callbacks for
// that command. err is nil on success.
//
// CompleteFunc may itself issue the next command; doing so leaves the
// Client's state machine in StateStart, and the Process call that invoked
// CompleteFunc goes on to process that command before returning.
type CompleteFunc func(err error)

// hooks bundles every callback a Client may invoke, mirroring the
// burrow_set_*_fn family of setters, collapsed to struct fields since Go
// closures already carry their own context in place of a callback+void*
// pointer pair.
type hooks struct {
	Message  MessageFunc
	Queue    QueueFunc
	Account  AccountFunc
	Log      LogFunc
	Complete CompleteFunc
}
