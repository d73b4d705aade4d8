//go:build !unix

package classfile

import "os"

func flock(fh *os.File, exclusive bool) error { return nil }

func funlock(fh *os.File) error { return nil }
