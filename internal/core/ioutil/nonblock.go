package ioutil

import "golang.org/x/sys/unix"

// SetNonblock puts fd into non-blocking mode. The event loop requires
// this for every socket it owns, including the listener: a blocking
// accept(2) or read(2) would stall the single loop thread.
func SetNonblock(fd int) error {
	return unix.SetNonblock(fd, true)
}
