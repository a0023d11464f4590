//go:build unix

package httpclient

import "golang.org/x/sys/unix"

// newWakeFD creates a non-blocking eventfd used to signal an in-flight
// transfer's completion to the front-end's fd-watch list, in the style of
// eventloop's self-pipe wakeup.
func newWakeFD() (int, error) {
	return unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
}

// signalWake wakes any watcher of fd. Called from the transfer goroutine
// once the HTTP round trip finishes.
func signalWake(fd int) {
	var buf [8]byte
	buf[7] = 1
	_, _ = unix.Write(fd, buf[:])
}

// drainWake clears fd's pending signal so it doesn't stay readable.
func drainWake(fd int) {
	var buf [8]byte
	_, _ = unix.Read(fd, buf[:])
}

func closeWake(fd int) {
	_ = unix.Close(fd)
}
