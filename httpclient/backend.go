package httpclient

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/burrowdb/burrow-go"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

func init() {
	burrow.Register("http", func() burrow.Backend { return New() })
}

// Backend is the HTTP/JSON Burrow backend: it holds a single in-flight
// transfer at a time, matching the original easy-handle-per-command model —
// issuing a new command while one is active tears the previous one down.
type Backend struct {
	ctx burrow.BackendContext

	httpClient *http.Client
	scheme     string
	server     string
	port       int
	version    string

	current *transfer
	diag    *logiface.Logger[*stumpy.Event]
}

// New constructs a Backend pointed at localhost:8080, for programs that
// want to bypass the name-based registry (e.g. tests) or need access to
// SetOption-configurable fields before Init.
func New() *Backend {
	return &Backend{
		httpClient: &http.Client{},
		scheme:     "http",
		server:     "localhost",
		port:       8080,
		version:    "v1.0",
		diag:       logiface.New[*stumpy.Event](stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr))),
	}
}

func (b *Backend) Init(ctx burrow.BackendContext) error {
	b.ctx = ctx
	return nil
}

func (b *Backend) Close() error {
	if b.current != nil {
		b.finishTransfer(b.current)
	}
	return nil
}

// Size reports 1 while a transfer is in flight, 0 otherwise.
func (b *Backend) Size() int {
	if b.current != nil {
		return 1
	}
	return 0
}

// SetOption recognizes "scheme", "server", "port", and "version", each
// overriding the matching field of the base URL built for every request.
func (b *Backend) SetOption(key, value string) error {
	switch key {
	case "scheme":
		b.scheme = value
	case "server":
		b.server = value
	case "version":
		b.version = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return &burrow.Error{Kind: burrow.KindInvalidArgument, Message: "port must be between 1 and 65535"}
		}
		b.port = port
	default:
		return &burrow.Error{Kind: burrow.KindInvalidArgument, Message: "unrecognized http backend option " + key}
	}
	return nil
}

func (b *Backend) Process() error {
	if b.current == nil {
		return nil
	}
	select {
	case <-b.current.done:
	default:
		return burrow.ErrWouldBlock
	}
	t := b.current
	b.finishTransfer(t)
	return b.dispatchResponse(t)
}

// EventRaised is a pure wakeup: it never inspects the transfer itself,
// deferring that to the next Process call, which re-examines b.current the
// same way burrow_process re-enters perform.
func (b *Backend) EventRaised(fd int, events burrow.IOEvents) error {
	return nil
}

func (b *Backend) Cancel() {
	if b.current != nil {
		b.finishTransfer(b.current)
	}
}

func (b *Backend) issue(cmd *burrow.Command, reqBody []byte) error {
	if b.current != nil {
		b.finishTransfer(b.current)
	}
	rawURL := buildURL(b.scheme, b.server, b.port, b.version, cmd)
	method := methodFor(cmd.Kind)
	b.diag.Debug().Str("method", method).Str("url", rawURL).Log("issuing request")
	return b.startTransfer(cmd, method, rawURL, reqBody)
}

func (b *Backend) dispatchResponse(t *transfer) error {
	if t.err != nil {
		b.diag.Err().Err(t.err).Log("http transfer failed")
		return &burrow.Error{Kind: burrow.KindServerError, Message: "http transfer failed", Cause: t.err}
	}
	if t.status < 200 || t.status >= 300 {
		b.diag.Warning().Int("status", t.status).Log("server responded with a non-2xx status")
		return &burrow.Error{Kind: burrow.KindServerError, Message: fmt.Sprintf("server responded with status %d", t.status)}
	}

	switch t.cmd.Kind {
	case burrow.CmdCreateMessage, burrow.CmdDeleteAccounts, burrow.CmdDeleteQueues:
		return nil
	case burrow.CmdGetAccounts:
		return b.wrapDecodeErr(decodeStrings(bytes.NewReader(t.body), b.ctx.Account))
	case burrow.CmdGetQueues:
		return b.wrapDecodeErr(decodeStrings(bytes.NewReader(t.body), b.ctx.Queue))
	case burrow.CmdGetMessage:
		if t.cmd.Filters != nil && t.cmd.Filters.IsSetDetail() && t.cmd.Filters.Detail() == burrow.DetailBody {
			b.ctx.Message("", t.body, burrow.Attributes{})
			return nil
		}
		return b.wrapDecodeErr(decodeMessages(b.ctx, bytes.NewReader(t.body)))
	default: // GetMessages, UpdateMessage, UpdateMessages, DeleteMessage, DeleteMessages
		return b.wrapDecodeErr(decodeMessages(b.ctx, bytes.NewReader(t.body)))
	}
}

func (b *Backend) wrapDecodeErr(err error) error {
	if err == nil {
		return nil
	}
	b.diag.Err().Err(err).Log("malformed json response")
	return &burrow.Error{Kind: burrow.KindServerError, Message: "malformed json response", Cause: err}
}

func (b *Backend) GetAccounts(cmd *burrow.Command) error    { return b.issue(cmd, nil) }
func (b *Backend) DeleteAccounts(cmd *burrow.Command) error { return b.issue(cmd, nil) }
func (b *Backend) GetQueues(cmd *burrow.Command) error      { return b.issue(cmd, nil) }
func (b *Backend) DeleteQueues(cmd *burrow.Command) error   { return b.issue(cmd, nil) }
func (b *Backend) GetMessages(cmd *burrow.Command) error    { return b.issue(cmd, nil) }
func (b *Backend) UpdateMessages(cmd *burrow.Command) error { return b.issue(cmd, []byte{}) }
func (b *Backend) DeleteMessages(cmd *burrow.Command) error { return b.issue(cmd, nil) }
func (b *Backend) GetMessage(cmd *burrow.Command) error     { return b.issue(cmd, nil) }
func (b *Backend) UpdateMessage(cmd *burrow.Command) error  { return b.issue(cmd, []byte{}) }
func (b *Backend) DeleteMessage(cmd *burrow.Command) error  { return b.issue(cmd, nil) }
func (b *Backend) CreateMessage(cmd *burrow.Command) error  { return b.issue(cmd, cmd.Body) }
