package dc42

import (
	"errors"
	"fmt"
	"io"
)

const (
	HeaderSize    = 84
	MaxNameLength = 63
	Magic         = 0x0100 // the "private" word
	BlockSize     = 512    // bytes per disk block
	TagBytes      = 12     // tag bytes per block, when present
)

// Header offsets.
const (
	offNameLength   = 0
	offName         = 1
	offDataSize     = 64
	offTagSize      = 68
	offDataChecksum = 72
	offTagChecksum  = 76
	offDiskFormat   = 80
	offFormatByte   = 81
	offMagic        = 82
)

// Header is the 84-byte Disk Copy 4.2 file header. It is followed on disk
// by DataSize bytes of sector data and TagSize bytes of tag data.
type Header struct {
	nameLength   uint8
	name         [MaxNameLength]byte
	dataSize     uint32
	tagSize      uint32
	dataChecksum uint32
	tagChecksum  uint32
	diskFormat   uint8
	formatByte   uint8
	magic        uint16
}

// ParseHeader extracts the header fields from raw bytes. Any 84 bytes
// parse; use Validate to check them.
func ParseHeader(b [HeaderSize]byte) Header {
	var h Header
	h.nameLength = b[offNameLength]
	copy(h.name[:], b[offName:offDataSize])
	h.dataSize = ReadUint32(b[offDataSize:])
	h.tagSize = ReadUint32(b[offTagSize:])
	h.dataChecksum = ReadUint32(b[offDataChecksum:])
	h.tagChecksum = ReadUint32(b[offTagChecksum:])
	h.diskFormat = b[offDiskFormat]
	h.formatByte = b[offFormatByte]
	h.magic = ReadUint16(b[offMagic:])
	return h
}

// ReadHeader seeks to the start of r and parses the header, leaving r
// positioned at the first data byte.
func ReadHeader(r io.ReadSeeker) (Header, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Header{}, fmt.Errorf("%w: header: %w", ErrSeek, err)
	}
	var b [HeaderSize]byte
	if n, err := io.ReadFull(r, b[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: header: read %d of %d bytes", ErrShortRead, n, HeaderSize)
		}
		return Header{}, fmt.Errorf("failed to read header: %w", err)
	}
	return ParseHeader(b), nil
}

// CreateForHFS builds a header for an HFS floppy image of dataBlockCount
// 512-byte blocks. Only 400k, 800k, 720k and 1440k sizes are accepted.
func CreateForHFS(name string, dataBlockCount, dataChecksum, tagByteCount, tagChecksum uint32) (Header, error) {
	if len(name) > MaxNameLength {
		return Header{}, fmt.Errorf("%w: name %q length %d is longer than the maximum %d",
			ErrNameTooLong, name, len(name), MaxNameLength)
	}
	geo, ok := hfsGeometries[dataBlockCount]
	if !ok {
		return Header{}, fmt.Errorf("%w: HFS block count %d", ErrUnrecognizedGeometry, dataBlockCount)
	}
	h := Header{
		nameLength:   uint8(len(name)),
		dataSize:     dataBlockCount * BlockSize,
		tagSize:      tagByteCount,
		dataChecksum: dataChecksum,
		tagChecksum:  tagChecksum,
		diskFormat:   geo.diskFormat,
		formatByte:   geo.formatByte,
		magic:        Magic,
	}
	copy(h.name[:], name)
	return h, nil
}

// Bytes serializes the header.
func (h Header) Bytes() [HeaderSize]byte {
	var b [HeaderSize]byte
	b[offNameLength] = h.nameLength
	copy(b[offName:offDataSize], h.name[:])
	PutUint32(b[offDataSize:], h.dataSize)
	PutUint32(b[offTagSize:], h.tagSize)
	PutUint32(b[offDataChecksum:], h.dataChecksum)
	PutUint32(b[offTagChecksum:], h.tagChecksum)
	b[offDiskFormat] = h.diskFormat
	b[offFormatByte] = h.formatByte
	PutUint16(b[offMagic:], h.magic)
	return b
}

// WriteTo writes the serialized header at the current position of w.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	b := h.Bytes()
	n, err := w.Write(b[:])
	if err != nil {
		return int64(n), fmt.Errorf("failed to write header: %w", err)
	}
	return int64(n), nil
}

// Name returns the raw name bytes, clipped to the maximum length.
func (h Header) Name() []byte {
	n := min(int(h.nameLength), MaxNameLength)
	return append([]byte(nil), h.name[:n]...)
}

func (h Header) NameLength() uint8 { return h.nameLength }
func (h Header) DataSize() uint32 { return h.dataSize }
func (h Header) TagSize() uint32 { return h.tagSize }
func (h Header) DataChecksum() uint32 { return h.dataChecksum }
func (h Header) TagChecksum() uint32 { return h.tagChecksum }
func (h Header) DiskFormat() uint8 { return h.diskFormat }
func (h Header) FormatByte() uint8 { return h.formatByte }
func (h Header) Magic() uint16 { return h.magic }

// TotalFileSize is the size in bytes of the image file the header describes.
func (h Header) TotalFileSize() uint32 {
	return h.dataSize + h.tagSize + HeaderSize
}

// Validate checks the header against the built-in code sets and returns
// the total file size when it is well formed.
func (h Header) Validate() (uint32, error) {
	return h.ValidateWith(builtinCodes)
}

// ValidateWith is Validate with caller-supplied recognized codes.
func (h Header) ValidateWith(codes *Codes) (uint32, error) {
	if h.nameLength > MaxNameLength {
		return 0, fmt.Errorf("%w: length %d, maximum %d", ErrNameTooLong, h.nameLength, MaxNameLength)
	}
	if _, err := codes.DiskFormatName(h.diskFormat); err != nil {
		return 0, err
	}
	if _, err := codes.FormatByteName(h.formatByte); err != nil {
		return 0, err
	}
	if h.magic != Magic {
		return 0, fmt.Errorf("%w: 0x%04x != 0x%04x", ErrBadMagic, h.magic, Magic)
	}
	if h.dataSize%2 != 0 {
		return 0, fmt.Errorf("%w: %d bytes", ErrOddDataSize, h.dataSize)
	}
	return h.TotalFileSize(), nil
}

// VerifyDataChecksum checksums the data region of r and compares it with
// the stored data checksum.
func (h Header) VerifyDataChecksum(r io.ReadSeeker) error {
	return verifyRegion(r, RegionData, HeaderSize, h.dataSize, h.dataChecksum)
}

// VerifyTagChecksum does the same for the tag region. Images without tags
// always pass.
func (h Header) VerifyTagChecksum(r io.ReadSeeker) error {
	if h.tagSize == 0 {
		return nil
	}
	return verifyRegion(r, RegionTag, int64(HeaderSize)+int64(h.dataSize), h.tagSize, h.tagChecksum)
}

func verifyRegion(r io.ReadSeeker, region Region, offset int64, size, expected uint32) error {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %s region at %d: %w", ErrSeek, region, offset, err)
	}
	sum := NewChecksum(0)
	if err := sum.ConsumeStream(r, size); err != nil {
		return fmt.Errorf("%s region: %w", region, err)
	}
	if sum.Sum() != expected {
		return &ChecksumMismatchError{Region: region, Expected: expected, Computed: sum.Sum()}
	}
	return nil
}
