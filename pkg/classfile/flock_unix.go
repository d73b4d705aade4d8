//go:build unix

package classfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// flock blocks until a shared or exclusive lock on fh is acquired.
// Locks are held per open file, so two handles of the same process conflict.
func flock(fh *os.File, exclusive bool) error {
	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}

	for {
		err := unix.Flock(int(fh.Fd()), how)
		if err != unix.EINTR {
			return Error.Wrap(err)
		}
	}
}

func funlock(fh *os.File) error {
	return Error.Wrap(unix.Flock(int(fh.Fd()), unix.LOCK_UN))
}
