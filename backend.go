package burrow

// BackendContext is the set of hooks a Backend uses to report results back
// to the Client that owns it, and to register its I/O interest. The Client
// is the sole caller of a Backend's methods, and the sole implementer of
// BackendContext.
type BackendContext interface {
	// Message reports one message. attrs' ttl/hide are relative to "now".
	Message(id string, body []byte, attrs Attributes)
	// Queue reports one queue name.
	Queue(name string)
	// Account reports one account name.
	Account(name string)
	// Log reports a diagnostic string at the given severity.
	Log(level Level, message string)
	// WatchFD registers (interest != 0) or deregisters (interest == 0)
	// interest in fd with the Client's fd-watch list.
	WatchFD(fd int, interest IOEvents)
}

// Backend is the contract every Burrow backend implements: the memory
// store, the HTTP/JSON client, and any backend registered at runtime. A
// Backend MUST NOT block; when more I/O is needed it registers file
// descriptors via BackendContext.WatchFD and returns ErrWouldBlock.
//
// The eleven command methods receive the BackendContext to use for the
// duration of the call (and, if they return ErrWouldBlock, for the duration
// of subsequent Process/EventRaised calls until the command finishes).
type Backend interface {
	// Init prepares the backend for use, retaining ctx for the lifetime of
	// the backend (until Close).
	Init(ctx BackendContext) error
	// Close releases any resources held by the backend. The backend must
	// not be used afterward.
	Close() error
	// Size returns an implementation-defined measure of backend size (e.g.
	// the memory backend returns its account count); mainly diagnostic.
	Size() int
	// SetOption sets a string-valued backend-specific option. Returns
	// *Error{Kind: KindInvalidArgument} for an unrecognized key.
	SetOption(key, value string) error

	// Process continues work on the current command (set by the most
	// recent command entry point). Returns nil on completion, ErrWouldBlock
	// if more I/O is needed, or another *Error on failure.
	Process() error
	// EventRaised notifies the backend that fd became ready for the given
	// events. Same return contract as Process.
	EventRaised(fd int, events IOEvents) error
	// Cancel abandons the current command, releasing any resources (e.g.
	// an in-flight HTTP transfer) without invoking any further callbacks.
	Cancel()

	GetAccounts(cmd *Command) error
	DeleteAccounts(cmd *Command) error
	GetQueues(cmd *Command) error
	DeleteQueues(cmd *Command) error
	GetMessages(cmd *Command) error
	UpdateMessages(cmd *Command) error
	DeleteMessages(cmd *Command) error
	GetMessage(cmd *Command) error
	UpdateMessage(cmd *Command) error
	DeleteMessage(cmd *Command) error
	CreateMessage(cmd *Command) error
}

// dispatch routes cmd to the Backend method matching its Kind. It exists so
// Client.Process doesn't need an eleven-way switch of its own.
func dispatch(b Backend, cmd *Command) error {
	switch cmd.Kind {
	case CmdGetAccounts:
		return b.GetAccounts(cmd)
	case CmdDeleteAccounts:
		return b.DeleteAccounts(cmd)
	case CmdGetQueues:
		return b.GetQueues(cmd)
	case CmdDeleteQueues:
		return b.DeleteQueues(cmd)
	case CmdGetMessages:
		return b.GetMessages(cmd)
	case CmdUpdateMessages:
		return b.UpdateMessages(cmd)
	case CmdDeleteMessages:
		return b.DeleteMessages(cmd)
	case CmdGetMessage:
		return b.GetMessage(cmd)
	case CmdUpdateMessage:
		return b.UpdateMessage(cmd)
	case CmdDeleteMessage:
		return b.DeleteMessage(cmd)
	case CmdCreateMessage:
		return b.CreateMessage(cmd)
	default:
		return newError(KindInternal, "unknown command kind %v", cmd.Kind)
	}
}
