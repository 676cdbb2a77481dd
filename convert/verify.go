package convert

import (
	"fmt"
	"io"

	"github.com/sergev/diskcopy/dc42"
	"go.uber.org/zap"
)

// Verify checks the header structure and both checksums of the Disk Copy
// 4.2 image in src.
func Verify(src io.ReadSeeker, opts Options) (dc42.Header, error) {
	log := opts.logger()

	header, err := dc42.ReadHeader(src)
	if err != nil {
		return dc42.Header{}, err
	}
	log.Debug("read header", zap.Stringer("header", header))

	total, err := header.ValidateWith(opts.codes())
	if err != nil {
		return header, err
	}
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return header, fmt.Errorf("%w: end of image: %w", dc42.ErrSeek, err)
	}
	if size > int64(total) {
		log.Warn("image has trailing bytes", zap.Int64("size", size), zap.Uint32("expected", total))
	}

	if err := header.VerifyDataChecksum(src); err != nil {
		return header, err
	}
	if err := header.VerifyTagChecksum(src); err != nil {
		return header, err
	}
	return header, nil
}
