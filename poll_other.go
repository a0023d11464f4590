//go:build !unix

package burrow

// readyFD is one entry of pollOnce's result: an fd that became ready, and
// which of its watched events fired.
type readyFD struct {
	fd     int
	events IOEvents
}

// pollOnce has no implementation on non-unix platforms; a backend that
// registers fds there must be driven through WithWatchFD instead.
func (c *Client) pollOnce() ([]readyFD, error) {
	return nil, newError(KindInternal, "internal fd poll is not supported on this platform; use WithWatchFD")
}
