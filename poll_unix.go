//go:build unix

package burrow

import (
	"time"

	"golang.org/x/sys/unix"
)

// readyFD is one entry of pollOnce's result: an fd that became ready, and
// which of its watched events fired.
type readyFD struct {
	fd     int
	events IOEvents
}

// pollOnce waits on the Client's fd-watch list using unix.Poll, for up to
// the Client's configured timeout. It is the internal substitute for a
// user-supplied event loop (see WithWatchFD); Process only calls it when no
// such hook is installed.
func (c *Client) pollOnce() ([]readyFD, error) {
	if len(c.watchList) == 0 {
		return nil, newError(KindInternal, "internal poll invoked with an empty fd-watch list")
	}

	pfds := make([]unix.PollFd, 0, len(c.watchList))
	fds := make([]int, 0, len(c.watchList))
	for fd, interest := range c.watchList {
		var events int16
		if interest.Has(EventRead) {
			events |= unix.POLLIN
		}
		if interest.Has(EventWrite) {
			events |= unix.POLLOUT
		}
		pfds = append(pfds, unix.PollFd{Fd: int32(fd), Events: events})
		fds = append(fds, fd)
	}

	timeoutMs := -1
	if c.timeout > 0 {
		timeoutMs = int(c.timeout / time.Millisecond)
	}

	n, err := unix.Poll(pfds, timeoutMs)
	for err == unix.EINTR {
		n, err = unix.Poll(pfds, timeoutMs)
	}
	if err != nil {
		return nil, wrapError(KindInternal, err, "internal poll failed")
	}
	if n == 0 {
		return nil, newError(KindTimedOut, "internal poll timed out after %s", c.timeout)
	}

	ready := make([]readyFD, 0, n)
	for i, p := range pfds {
		if p.Revents == 0 {
			continue
		}
		var events IOEvents
		if p.Revents&unix.POLLIN != 0 {
			events |= EventRead
		}
		if p.Revents&unix.POLLOUT != 0 {
			events |= EventWrite
		}
		if events == 0 {
			// POLLERR/POLLHUP/POLLNVAL with neither IN nor OUT set: surface
			// as read-ready so the backend's read path discovers the error.
			events = EventRead
		}
		ready = append(ready, readyFD{fd: fds[i], events: events})
	}
	return ready, nil
}
