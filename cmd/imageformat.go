package cmd

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/sergev/diskcopy/dc42"
)

// ImageFormat represents a floppy disk image format
type ImageFormat int

const (
	// ImageFormatUnknown represents an unknown or unrecognized format
	ImageFormatUnknown ImageFormat = iota
	ImageFormatDC42                // DC42 format - Apple Disk Copy 4.2
	ImageFormatRaw                 // raw, block-by-block copy of an HFS volume
)

// String returns the string representation of the ImageFormat
func (f ImageFormat) String() string {
	switch f {
	case ImageFormatDC42:
		return "DC42"
	case ImageFormatRaw:
		return "raw HFS"
	default:
		return "Unknown"
	}
}

// DetectImageFormat detects the image format from a filename based on its extension.
// The extension check is case-insensitive. Returns ImageFormatUnknown if the format
// cannot be determined.
func DetectImageFormat(filename string) ImageFormat {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ImageFormatUnknown
	}

	// Remove leading dot and convert to lowercase for case-insensitive comparison
	ext = strings.ToLower(ext[1:])

	switch ext {
	case "dc42", "diskcopy", "image":
		return ImageFormatDC42
	case "dsk", "hfs", "ima", "img":
		return ImageFormatRaw
	default:
		return ImageFormatUnknown
	}
}

// SniffImageFormat looks at the contents when the extension says nothing:
// a DC42 header valid under codes wins, anything else is treated as raw.
func SniffImageFormat(r io.ReadSeeker, codes *dc42.Codes) ImageFormat {
	header, err := dc42.ReadHeader(r)
	if err != nil {
		return ImageFormatRaw
	}
	if _, err := header.ValidateWith(codes); err != nil {
		return ImageFormatRaw
	}
	return ImageFormatDC42
}
