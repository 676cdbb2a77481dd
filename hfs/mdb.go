// Package hfs reads the part of an HFS Master Directory Block needed to
// size a floppy volume and find its name. It is not a filesystem reader.
package hfs

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sergev/diskcopy/dc42"
	"golang.org/x/text/encoding/charmap"
)

const (
	MDBSize             = 512
	MDBOffset           = 1024 // logical block 2
	BlockSize           = 512
	Signature           = 0x4244 // "BD"
	MaxVolumeNameLength = 27
)

var (
	ErrNameTooLong         = errors.New("volume name too long")
	ErrBadSignature        = errors.New("bad MDB signature")
	ErrMisalignedBlockSize = errors.New("allocation block size is not a multiple of 512")
)

// MDB holds the leading fields of the Master Directory Block.
type MDB struct {
	Signature               uint16
	CreationDate            uint32 // seconds since 1904
	ModificationDate        uint32
	Attributes              uint16
	RootFileCount           uint16
	VolumeBitmapBlock       uint16
	NextAllocationSearch    uint16
	NumAllocationBlocks     uint16
	AllocationBlockSize     uint32 // bytes
	DefaultClumpSize        uint32
	FirstAllocationBlock    uint16
	NextCatalogNodeID       uint32
	NumFreeAllocationBlocks uint16
	VolumeNameLength        uint8
	volumeName              [MaxVolumeNameLength]byte
}

// ParseMDB extracts the fields from a raw block. Any block parses; use
// Valid to check it.
func ParseMDB(b [MDBSize]byte) MDB {
	m := MDB{
		Signature:               dc42.ReadUint16(b[0:]),
		CreationDate:            dc42.ReadUint32(b[2:]),
		ModificationDate:        dc42.ReadUint32(b[6:]),
		Attributes:              dc42.ReadUint16(b[10:]),
		RootFileCount:           dc42.ReadUint16(b[12:]),
		VolumeBitmapBlock:       dc42.ReadUint16(b[14:]),
		NextAllocationSearch:    dc42.ReadUint16(b[16:]),
		NumAllocationBlocks:     dc42.ReadUint16(b[18:]),
		AllocationBlockSize:     dc42.ReadUint32(b[20:]),
		DefaultClumpSize:        dc42.ReadUint32(b[24:]),
		FirstAllocationBlock:    dc42.ReadUint16(b[28:]),
		NextCatalogNodeID:       dc42.ReadUint32(b[30:]),
		NumFreeAllocationBlocks: dc42.ReadUint16(b[34:]),
		VolumeNameLength:        b[36],
	}
	copy(m.volumeName[:], b[37:37+MaxVolumeNameLength])
	return m
}

// ReadMDB reads the MDB from a raw volume image.
func ReadMDB(r io.ReadSeeker) (MDB, error) {
	if _, err := r.Seek(MDBOffset, io.SeekStart); err != nil {
		return MDB{}, fmt.Errorf("%w: master directory block: %w", dc42.ErrSeek, err)
	}
	var b [MDBSize]byte
	if n, err := io.ReadFull(r, b[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return MDB{}, fmt.Errorf("%w: master directory block: read %d of %d bytes", dc42.ErrShortRead, n, MDBSize)
		}
		return MDB{}, fmt.Errorf("failed to read master directory block: %w", err)
	}
	return ParseMDB(b), nil
}

// RawVolumeName returns the name bytes as stored (Mac Roman).
func (m MDB) RawVolumeName() ([]byte, error) {
	if m.VolumeNameLength > MaxVolumeNameLength {
		return nil, fmt.Errorf("%w: declared length %d > maximum %d",
			ErrNameTooLong, m.VolumeNameLength, MaxVolumeNameLength)
	}
	return append([]byte(nil), m.volumeName[:m.VolumeNameLength]...), nil
}

// VolumeName returns the volume name decoded to UTF-8.
func (m MDB) VolumeName() (string, error) {
	raw, err := m.RawVolumeName()
	if err != nil {
		return "", err
	}
	name, err := charmap.Macintosh.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode volume name: %w", err)
	}
	return string(name), nil
}

// Valid checks the signature and allocation geometry and returns the size
// of the volume in 512-byte blocks.
func (m MDB) Valid() (uint64, error) {
	if m.Signature != Signature {
		return 0, fmt.Errorf("%w: 0x%04x != 0x%04x", ErrBadSignature, m.Signature, Signature)
	}
	if m.AllocationBlockSize%BlockSize != 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrMisalignedBlockSize, m.AllocationBlockSize)
	}
	// Blocks before the first allocation block hold the boot blocks, the MDB
	// and the volume bitmap. The backup MDB and one reserved block follow
	// the last allocation block.
	reserved := uint64(m.FirstAllocationBlock) + 2
	allocated := uint64(m.AllocationBlockSize/BlockSize) * uint64(m.NumAllocationBlocks)
	return reserved + allocated, nil
}

// String returns a human-readable description.
func (m MDB) String() string {
	n := min(int(m.VolumeNameLength), MaxVolumeNameLength)
	name, err := charmap.Macintosh.NewDecoder().Bytes(m.volumeName[:n])
	if err != nil {
		name = m.volumeName[:n]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "name[%d]: %s\n", m.VolumeNameLength, name)
	fmt.Fprintf(&sb, "%d allocation blocks each %d bytes\n", m.NumAllocationBlocks, m.AllocationBlockSize)
	fmt.Fprintf(&sb, "%d first allocation block\n", m.FirstAllocationBlock)
	fmt.Fprintf(&sb, "%d free allocation blocks\n", m.NumFreeAllocationBlocks)
	return sb.String()
}
