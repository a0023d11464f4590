package memory

import (
	"strconv"
	"time"

	"github.com/burrowdb/burrow-go"
)

func init() {
	burrow.Register("memory", func() burrow.Backend { return New() })
}

// defaultTTL is applied to a created message whose Attributes don't set
// ttl, matching the original backend's five-minute default.
const defaultTTL = 5 * time.Minute

type scanAction int

const (
	scanGet scanAction = iota
	scanUpdate
	scanDelete
)

// Backend is the in-process, volatile Burrow backend. It is not safe for
// concurrent use; a Client never calls it concurrently with itself.
type Backend struct {
	ctx        burrow.BackendContext
	accounts   *orderedMap[*storedAccount]
	defaultTTL time.Duration
}

// New constructs a Backend directly, for programs that want to bypass the
// name-based registry (e.g. tests).
func New() *Backend {
	return &Backend{
		accounts:   newOrderedMap[*storedAccount](),
		defaultTTL: defaultTTL,
	}
}

func (b *Backend) Init(ctx burrow.BackendContext) error {
	b.ctx = ctx
	return nil
}

func (b *Backend) Close() error {
	b.accounts = newOrderedMap[*storedAccount]()
	return nil
}

func (b *Backend) Size() int { return b.accounts.len() }

// SetOption recognizes "default_ttl_seconds", overriding the five-minute
// default applied to messages created without an explicit ttl.
func (b *Backend) SetOption(key, value string) error {
	switch key {
	case "default_ttl_seconds":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds < 0 {
			return &burrow.Error{Kind: burrow.KindInvalidArgument, Message: "default_ttl_seconds must be a non-negative integer"}
		}
		b.defaultTTL = time.Duration(seconds) * time.Second
		return nil
	default:
		return &burrow.Error{Kind: burrow.KindInvalidArgument, Message: "unrecognized memory backend option " + key}
	}
}

// Process, EventRaised, and Cancel are no-ops: every command method below
// runs to completion synchronously and never returns ErrWouldBlock.
func (b *Backend) Process() error                          { return nil }
func (b *Backend) EventRaised(fd int, ev burrow.IOEvents) error { return nil }
func (b *Backend) Cancel()                                  {}

func (b *Backend) reportMessage(msg *storedMessage, now time.Time) {
	attrs := burrow.NewAttributes()
	attrs.SetTTL(msg.ttl.Sub(now))
	if msg.hide.After(now) {
		attrs.SetHide(msg.hide.Sub(now))
	} else {
		attrs.SetHide(0)
	}
	b.ctx.Message(msg.id, msg.body, *attrs)
}

// cascadeDelete removes an emptied queue from its account, and an emptied
// account from the account table, mirroring the original backend's
// empty-queue/empty-account cleanup at the end of every mutating scan.
func (b *Backend) cascadeDelete(accountName, queueName string) {
	acc, ok := b.accounts.get(accountName)
	if !ok {
		return
	}
	if q, ok := acc.queues.get(queueName); ok && q.messages.len() == 0 {
		acc.queues.delete(queueName)
	}
	if acc.queues.len() == 0 {
		b.accounts.delete(accountName)
	}
}

// scanQueue runs action over cmd's filtered, non-expired, (optionally)
// non-hidden message range, reporting each visited message except for a
// silent delete (reportDeleted == false). It is the single algorithm behind
// get_messages, update_messages, delete_messages, and delete_queues'
// per-queue erase.
func (b *Backend) scanQueue(cmd *burrow.Command, action scanAction, reportDeleted bool) error {
	now := time.Now()

	acc, ok := b.accounts.get(cmd.Account)
	if !ok {
		return nil
	}
	q, ok := acc.queues.get(cmd.Queue)
	if !ok {
		return nil
	}

	var newTTL, newHide time.Time
	var setTTL, setHide bool
	if cmd.Attributes != nil {
		if cmd.Attributes.IsSetTTL() {
			setTTL = true
			newTTL = now.Add(cmd.Attributes.TTL())
		}
		if cmd.Attributes.IsSetHide() {
			setHide = true
			newHide = now.Add(cmd.Attributes.Hide())
		}
	}

	filters := resolveFilters(cmd.Filters)
	ids := q.messages.keysFrom(filters.marker, filters.limit)

	for _, id := range ids {
		msg, ok := q.messages.get(id)
		if !ok {
			continue
		}
		if !msg.ttl.After(now) {
			q.messages.delete(id)
			continue
		}
		if msg.hide.After(now) && !filters.matchHidden {
			continue
		}

		switch action {
		case scanUpdate:
			if setTTL {
				msg.ttl = newTTL
			}
			if setHide {
				msg.hide = newHide
			}
			b.reportMessage(msg, now)
		case scanGet:
			b.reportMessage(msg, now)
		case scanDelete:
			q.messages.delete(id)
			if reportDeleted {
				b.reportMessage(msg, now)
			}
		}
	}

	b.cascadeDelete(cmd.Account, cmd.Queue)
	return nil
}

func (b *Backend) GetMessages(cmd *burrow.Command) error {
	return b.scanQueue(cmd, scanGet, true)
}

func (b *Backend) UpdateMessages(cmd *burrow.Command) error {
	return b.scanQueue(cmd, scanUpdate, true)
}

func (b *Backend) DeleteMessages(cmd *burrow.Command) error {
	return b.scanQueue(cmd, scanDelete, true)
}

func (b *Backend) CreateMessage(cmd *burrow.Command) error {
	now := time.Now()

	ttl := b.defaultTTL
	if cmd.Attributes != nil && cmd.Attributes.IsSetTTL() {
		ttl = cmd.Attributes.TTL()
	}
	var hide time.Time
	if cmd.Attributes != nil && cmd.Attributes.IsSetHide() && cmd.Attributes.Hide() > 0 {
		hide = now.Add(cmd.Attributes.Hide())
	}

	acc, ok := b.accounts.get(cmd.Account)
	if !ok {
		acc = newStoredAccount()
		b.accounts.set(cmd.Account, acc)
	}
	q, ok := acc.queues.get(cmd.Queue)
	if !ok {
		q = newStoredQueue()
		acc.queues.set(cmd.Queue, q)
	}

	body := make([]byte, len(cmd.Body))
	copy(body, cmd.Body)
	q.messages.set(cmd.MessageID, &storedMessage{
		id:   cmd.MessageID,
		body: body,
		ttl:  now.Add(ttl),
		hide: hide,
	})
	return nil
}

func (b *Backend) lookupMessage(accountName, queueName, id string) (*storedQueue, *storedMessage, bool) {
	acc, ok := b.accounts.get(accountName)
	if !ok {
		return nil, nil, false
	}
	q, ok := acc.queues.get(queueName)
	if !ok {
		return nil, nil, false
	}
	msg, ok := q.messages.get(id)
	if !ok {
		return q, nil, false
	}
	return q, msg, true
}

func (b *Backend) GetMessage(cmd *burrow.Command) error {
	q, msg, ok := b.lookupMessage(cmd.Account, cmd.Queue, cmd.MessageID)
	if !ok {
		return burrow.ErrNotFound
	}
	now := time.Now()
	if !msg.ttl.After(now) {
		// Expired-but-present is not a lookup failure: report success with
		// no callback, same as the account/queue/message lookup succeeding
		// on an already-deleted node.
		q.messages.delete(cmd.MessageID)
		b.cascadeDelete(cmd.Account, cmd.Queue)
		return nil
	}
	b.reportMessage(msg, now)
	return nil
}

func (b *Backend) UpdateMessage(cmd *burrow.Command) error {
	q, msg, ok := b.lookupMessage(cmd.Account, cmd.Queue, cmd.MessageID)
	if !ok {
		return burrow.ErrNotFound
	}
	now := time.Now()
	if !msg.ttl.After(now) {
		q.messages.delete(cmd.MessageID)
		b.cascadeDelete(cmd.Account, cmd.Queue)
		return nil
	}
	if cmd.Attributes != nil {
		if cmd.Attributes.IsSetTTL() {
			msg.ttl = now.Add(cmd.Attributes.TTL())
		}
		if cmd.Attributes.IsSetHide() {
			msg.hide = now.Add(cmd.Attributes.Hide())
		}
	}
	b.reportMessage(msg, now)
	return nil
}

func (b *Backend) DeleteMessage(cmd *burrow.Command) error {
	q, msg, ok := b.lookupMessage(cmd.Account, cmd.Queue, cmd.MessageID)
	if !ok {
		return nil
	}
	now := time.Now()
	if msg.ttl.After(now) {
		b.reportMessage(msg, now)
	}
	q.messages.delete(cmd.MessageID)
	b.cascadeDelete(cmd.Account, cmd.Queue)
	return nil
}

func (b *Backend) GetQueues(cmd *burrow.Command) error {
	acc, ok := b.accounts.get(cmd.Account)
	if !ok {
		return nil
	}
	f := resolveFilters(cmd.Filters)
	for _, name := range acc.queues.keysFrom(f.marker, f.limit) {
		b.ctx.Queue(name)
	}
	return nil
}

func (b *Backend) DeleteQueues(cmd *burrow.Command) error {
	acc, ok := b.accounts.get(cmd.Account)
	if !ok {
		return nil
	}
	f := resolveFilters(cmd.Filters)
	names := acc.queues.keysFrom(f.marker, f.limit)
	for _, name := range names {
		b.scanQueue(&burrow.Command{Account: cmd.Account, Queue: name}, scanDelete, false)
	}
	return nil
}

func (b *Backend) GetAccounts(cmd *burrow.Command) error {
	f := resolveFilters(cmd.Filters)
	for _, name := range b.accounts.keysFrom(f.marker, f.limit) {
		b.ctx.Account(name)
	}
	return nil
}

func (b *Backend) DeleteAccounts(cmd *burrow.Command) error {
	f := resolveFilters(cmd.Filters)
	names := b.accounts.keysFrom(f.marker, f.limit)
	for _, name := range names {
		b.DeleteQueues(&burrow.Command{Account: name})
	}
	return nil
}
