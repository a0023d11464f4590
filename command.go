package burrow

import "fmt"

// CommandKind names one of the eleven logical operations a Client can
// issue, mirroring burrow_command_t.
type CommandKind int

const (
	CmdGetAccounts CommandKind = iota
	CmdDeleteAccounts

	CmdGetQueues
	CmdDeleteQueues

	CmdGetMessages
	CmdUpdateMessages
	CmdDeleteMessages

	CmdGetMessage
	CmdUpdateMessage
	CmdDeleteMessage
	CmdCreateMessage
)

// String returns a human-readable name for the command kind.
func (k CommandKind) String() string {
	switch k {
	case CmdGetAccounts:
		return "get_accounts"
	case CmdDeleteAccounts:
		return "delete_accounts"
	case CmdGetQueues:
		return "get_queues"
	case CmdDeleteQueues:
		return "delete_queues"
	case CmdGetMessages:
		return "get_messages"
	case CmdUpdateMessages:
		return "update_messages"
	case CmdDeleteMessages:
		return "delete_messages"
	case CmdGetMessage:
		return "get_message"
	case CmdUpdateMessage:
		return "update_message"
	case CmdDeleteMessage:
		return "delete_message"
	case CmdCreateMessage:
		return "create_message"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command bundles one operation and its parameters. It is constructed by
// the Client before dispatch and passed to the active Backend's matching
// entry point.
type Command struct {
	Kind       CommandKind
	Account    string
	Queue      string
	MessageID  string
	Body       []byte
	Attributes *Attributes
	Filters    *Filters
}
