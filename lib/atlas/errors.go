package atlas

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a sprite, font, or source image lookup
	// misses.
	ErrNotFound = errors.New("not found")

	// ErrInvalidHandle is returned for handles which are out of range or
	// refer to an inactive slot.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrUnsupportedFormat is returned for font files which cannot be parsed.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrIO is returned when a file cannot be read or written.
	ErrIO = errors.New("i/o error")

	// ErrEmptyAtlas is returned when ending an atlas with nothing to pack.
	ErrEmptyAtlas = errors.New("atlas is empty")

	// ErrVersionMismatch is returned when decoding an unknown format version.
	ErrVersionMismatch = errors.New("unknown atlas format version")

	// ErrNotPacked is returned when saving an atlas which has not been
	// packed.
	ErrNotPacked = errors.New("atlas is not packed")

	// ErrAlreadyPacked is returned when modifying an atlas after it has been
	// packed.
	ErrAlreadyPacked = errors.New("atlas is already packed")
)

// A HandleError is an invalid atlas, sprite, font, or tile handle.
type HandleError struct {
	Kind   string
	Handle int32
}

func (e *HandleError) Error() string {
	return fmt.Sprintf("invalid %s handle: %d", e.Kind, e.Handle)
}

func (e *HandleError) Unwrap() error {
	return ErrInvalidHandle
}

// A VersionError is an atlas file with an unknown version tag.
type VersionError struct {
	Version uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unknown atlas format version: %d", e.Version)
}

func (e *VersionError) Unwrap() error {
	return ErrVersionMismatch
}
