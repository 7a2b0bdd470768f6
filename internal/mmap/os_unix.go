//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// osMap maps a model file shared and read-only so several models opened
// from the same path share page cache.
func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

// osAdvise maps the tokenizer and lazy-decoder hints onto madvise(2).
func osAdvise(data []byte, pattern AccessPattern) error {
	var advice int
	switch pattern {
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessRandom:
		advice = unix.MADV_RANDOM
	default:
		advice = unix.MADV_NORMAL
	}
	// Advice is best effort; unaligned ranges report EINVAL on Linux.
	if err := unix.Madvise(data, advice); err != nil && err != unix.EINVAL {
		return err
	}
	return nil
}
