//go:build !unix

package httpclient

import "github.com/burrowdb/burrow-go"

// newWakeFD has no implementation on non-unix platforms: it always fails,
// so every HTTP command there fails with KindInternal before any request
// is sent.
func newWakeFD() (int, error) {
	return -1, &burrow.Error{Kind: burrow.KindInternal, Message: "httpclient: fd-based wakeup is not supported on this platform"}
}

func signalWake(fd int) {}
func drainWake(fd int)  {}
func closeWake(fd int)  {}
