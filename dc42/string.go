package dc42

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DisplayName decodes the image name from Mac Roman.
func (h Header) DisplayName() string {
	name, err := charmap.Macintosh.NewDecoder().Bytes(h.Name())
	if err != nil {
		return string(h.Name())
	}
	return string(name)
}

// String returns a human-readable description of the header.
func (h Header) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name[%d]: %s\n", h.nameLength, h.DisplayName())
	fmt.Fprintf(&sb, "0x%x data bytes (%d k)\n", h.dataSize, h.dataSize>>10)
	fmt.Fprintf(&sb, "0x%x tag bytes (%d k)\n", h.tagSize, h.tagSize>>10)
	fmt.Fprintf(&sb, "Data Checksum: %08x Tag Checksum: %08x\n", h.dataChecksum, h.tagChecksum)
	fmt.Fprintf(&sb, "Disk Format: %d (%s)\n", h.diskFormat, nameOrUnknown(DiskFormatName(h.diskFormat)))
	fmt.Fprintf(&sb, "Format Byte: 0x%02x (%s)\n", h.formatByte, nameOrUnknown(FormatByteName(h.formatByte)))
	fmt.Fprintf(&sb, "Private word: 0x%04x\n", h.magic)
	return sb.String()
}

func nameOrUnknown(name string, err error) string {
	if err != nil {
		return "<unknown>"
	}
	return name
}
