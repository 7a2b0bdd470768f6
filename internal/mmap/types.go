package mmap

import "errors"

// AccessPattern describes how a model's source buffer is about to be read.
type AccessPattern int

const (
	// AccessDefault drops any earlier hint.
	AccessDefault AccessPattern = iota
	// AccessSequential suits the tokenizer's single front-to-back scan.
	AccessSequential
	// AccessRandom suits lazy decoding of individual records after parsing.
	AccessRandom
)

var (
	// ErrClosed is returned when a model or blob reads from a released mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for model files too large to map.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned for negative blob read offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
