// Package convert moves disk data between raw HFS floppy images and
// Disk Copy 4.2 images.
package convert

import (
	"github.com/sergev/diskcopy/dc42"
	"go.uber.org/zap"
)

// Options controls the conversions. The zero value is usable.
type Options struct {
	// Logger receives diagnostics; nil discards them.
	Logger *zap.Logger

	// Codes are the header codes accepted by validation; nil means the
	// built-in set.
	Codes *dc42.Codes

	// IgnoreDataChecksum makes Extract succeed on a data checksum mismatch.
	IgnoreDataChecksum bool
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) codes() *dc42.Codes {
	if o.Codes == nil {
		return dc42.DefaultCodes()
	}
	return o.Codes
}
