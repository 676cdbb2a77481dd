package dc42

import (
	"fmt"
	"maps"
)

// Disk format codes, stored at header offset 80.
const (
	DiskFormat400K  uint8 = 0 // GCR CLV ssdd, Mac single-sided
	DiskFormat800K  uint8 = 1 // GCR CLV dsdd, Mac double-sided
	DiskFormat720K  uint8 = 2 // MFM CAV dsdd, PC double density
	DiskFormat1440K uint8 = 3 // MFM CAV dshd, PC high density
)

// Format byte values, stored at header offset 81. The byte is a bit field
// whose meaning differs between GCR and MFM disks and between historical
// references, so it is kept as an opaque code.
const (
	FormatByteMac400KAlt uint8 = 0x02
	FormatByteMac400K    uint8 = 0x12
	FormatByteOver400K   uint8 = 0x22
	FormatByteProDOS800K uint8 = 0x24
)

// Codes holds the recognized disk format and format byte values with
// their display names.
type Codes struct {
	diskFormats map[uint8]string
	formatBytes map[uint8]string
}

var defaultDiskFormats = map[uint8]string{
	DiskFormat400K:  "400k",
	DiskFormat800K:  "800k",
	DiskFormat720K:  "720k",
	DiskFormat1440K: "1440k",
}

var defaultFormatBytes = map[uint8]string{
	FormatByteMac400KAlt: "400k (alternate)",
	FormatByteMac400K:    "400k",
	FormatByteOver400K:   ">400k",
	FormatByteProDOS800K: "800k Apple II",
}

// DefaultCodes returns the built-in recognized sets.
func DefaultCodes() *Codes {
	return &Codes{
		diskFormats: maps.Clone(defaultDiskFormats),
		formatBytes: maps.Clone(defaultFormatBytes),
	}
}

// WithDiskFormat returns a copy of c that also recognizes code.
func (c *Codes) WithDiskFormat(code uint8, name string) *Codes {
	n := c.clone()
	n.diskFormats[code] = name
	return n
}

// WithFormatByte returns a copy of c that also recognizes code.
func (c *Codes) WithFormatByte(code uint8, name string) *Codes {
	n := c.clone()
	n.formatBytes[code] = name
	return n
}

func (c *Codes) clone() *Codes {
	return &Codes{
		diskFormats: maps.Clone(c.diskFormats),
		formatBytes: maps.Clone(c.formatBytes),
	}
}

// DiskFormatName returns the name of a disk format code.
func (c *Codes) DiskFormatName(code uint8) (string, error) {
	name, ok := c.diskFormats[code]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnrecognizedDiskFormat, code)
	}
	return name, nil
}

// FormatByteName returns the name of a format byte value.
func (c *Codes) FormatByteName(code uint8) (string, error) {
	name, ok := c.formatBytes[code]
	if !ok {
		return "", fmt.Errorf("%w: 0x%02x", ErrUnrecognizedFormatByte, code)
	}
	return name, nil
}

// DiskFormatName looks code up in the built-in set.
func DiskFormatName(code uint8) (string, error) {
	return builtinCodes.DiskFormatName(code)
}

// FormatByteName looks code up in the built-in set.
func FormatByteName(code uint8) (string, error) {
	return builtinCodes.FormatByteName(code)
}

var builtinCodes = &Codes{diskFormats: defaultDiskFormats, formatBytes: defaultFormatBytes}

// geometry maps an HFS volume size in 512-byte blocks to header codes.
type geometry struct {
	diskFormat uint8
	formatByte uint8
}

var hfsGeometries = map[uint32]geometry{
	800:  {DiskFormat400K, FormatByteMac400K}, // follows the Apple File Type Note
	1600: {DiskFormat800K, FormatByteOver400K},
	1440: {DiskFormat720K, FormatByteOver400K},
	2880: {DiskFormat1440K, FormatByteOver400K},
}
