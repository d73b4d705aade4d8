package classfile

import (
	"os"

	"github.com/zeebo/errs"
)

// ReadFile parses the class file at path while holding a shared lock on it,
// so that a concurrent WriteFile is never observed half way.
func ReadFile(path string) (_ *ClassFile, err error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer func() { err = errs.Combine(err, Error.Wrap(fh.Close())) }()

	if err := flock(fh, false); err != nil {
		return nil, Error.New("unable to lock %q: %w", path, err)
	}
	defer func() { err = errs.Combine(err, funlock(fh)) }()

	cf, err := Parse(fh)
	if err != nil {
		return nil, Error.New("unable to parse %q: %w", path, err)
	}
	return cf, nil
}

// WriteFile writes cf to path in place while holding an exclusive lock on it.
// The file must exist.
//
// The file is encoded before the lock is taken. An I/O error during the write
// can leave a truncated file behind.
func WriteFile(path string, cf *ClassFile) (err error) {
	data, err := cf.Bytes()
	if err != nil {
		return err
	}

	fh, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() { err = errs.Combine(err, Error.Wrap(fh.Close())) }()

	if err := flock(fh, true); err != nil {
		return Error.New("unable to lock %q: %w", path, err)
	}
	defer func() { err = errs.Combine(err, funlock(fh)) }()

	if err := fh.Truncate(0); err != nil {
		return Error.Wrap(err)
	}
	if _, err := fh.WriteAt(data, 0); err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(fh.Sync())
}
