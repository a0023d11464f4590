package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/burrowdb/burrow-go"
)

// transfer is one in-flight HTTP round trip: the Go substitute for a
// libcurl easy-handle registered with a multi-handle. The goroutine runs
// the request to completion and signals wakeFD exactly once; Process picks
// the result up and EventRaised is otherwise a pure wakeup (it never itself
// inspects the result — same division of labor as burrow_process
// re-entering perform while event_raised just reports something happened).
type transfer struct {
	cmd    *burrow.Command
	wakeFD int
	done   chan struct{}
	status int
	body   []byte
	err    error
	cancel context.CancelFunc
}

func (b *Backend) startTransfer(cmd *burrow.Command, method, rawURL string, reqBody []byte) error {
	fd, err := newWakeFD()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &transfer{cmd: cmd, wakeFD: fd, done: make(chan struct{}), cancel: cancel}
	b.current = t

	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		t.err = err
		signalWake(fd)
		close(t.done)
		b.ctx.WatchFD(fd, burrow.EventRead)
		return burrow.ErrWouldBlock
	}

	go func() {
		resp, err := b.httpClient.Do(req)
		if err != nil {
			t.err = err
		} else {
			defer resp.Body.Close()
			t.status = resp.StatusCode
			t.body, t.err = io.ReadAll(resp.Body)
		}
		// Signal before close so a racing finishTransfer (observing done
		// closed) never tears the fd down ahead of this write.
		signalWake(fd)
		close(t.done)
	}()

	b.ctx.WatchFD(fd, burrow.EventRead)
	return burrow.ErrWouldBlock
}

// finishTransfer drains and releases the wakeup fd for a completed
// transfer and clears Backend.current.
func (b *Backend) finishTransfer(t *transfer) {
	t.cancel()
	// Canceling the request context doesn't synchronously stop the
	// startTransfer goroutine; wait for its own signalWake/close(done)
	// before tearing the fd down, or a late signalWake writes to a closed
	// (and potentially reused) descriptor.
	<-t.done
	drainWake(t.wakeFD)
	b.ctx.WatchFD(t.wakeFD, 0)
	closeWake(t.wakeFD)
	if b.current == t {
		b.current = nil
	}
}
