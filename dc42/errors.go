package dc42

import (
	"errors"
	"fmt"
)

var (
	ErrSeek                   = errors.New("seek failed")
	ErrShortRead              = errors.New("short read")
	ErrMisalignedLength       = errors.New("odd number of bytes")
	ErrNameTooLong            = errors.New("name too long")
	ErrUnrecognizedGeometry   = errors.New("unrecognized disk geometry")
	ErrUnrecognizedDiskFormat = errors.New("unrecognized disk format")
	ErrUnrecognizedFormatByte = errors.New("unrecognized format byte")
	ErrBadMagic               = errors.New("bad magic number")
	ErrOddDataSize            = errors.New("data size is not even")
	ErrChecksumMismatch       = errors.New("checksum mismatch")
)

// Region names the part of the image a checksum covers.
type Region string

const (
	RegionData Region = "data"
	RegionTag  Region = "tag"
)

// ChecksumMismatchError reports a stored checksum that disagrees with the
// one computed from the image contents. Callers decide whether it is fatal.
type ChecksumMismatchError struct {
	Region   Region
	Expected uint32
	Computed uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("computed %s checksum %08x does not match header checksum %08x",
		e.Region, e.Computed, e.Expected)
}

func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrChecksumMismatch
}
