package convert

import (
	"errors"
	"io"

	"github.com/sergev/diskcopy/dc42"
	"go.uber.org/zap"
)

// Extract copies the data region of the Disk Copy 4.2 image in src to dst,
// checking the data checksum on the way. Tag data is not copied.
func Extract(src io.ReadSeeker, dst io.Writer, opts Options) (dc42.Header, error) {
	log := opts.logger()

	header, err := dc42.ReadHeader(src)
	if err != nil {
		return dc42.Header{}, err
	}
	log.Debug("read header", zap.Stringer("header", header))
	if _, err := header.ValidateWith(opts.codes()); err != nil {
		return header, err
	}

	// ReadHeader leaves src at the start of the data.
	sum := dc42.NewChecksum(0)
	if err := sum.ConsumeStream(io.TeeReader(src, dst), header.DataSize()); err != nil {
		return header, err
	}

	if sum.Sum() != header.DataChecksum() {
		err := &dc42.ChecksumMismatchError{
			Region:   dc42.RegionData,
			Expected: header.DataChecksum(),
			Computed: sum.Sum(),
		}
		if !opts.IgnoreDataChecksum {
			return header, err
		}
		log.Warn("ignoring data checksum mismatch", zap.Error(err))
	}
	return header, nil
}

// IsChecksumMismatch reports whether err is a checksum disagreement rather
// than a structural or I/O failure.
func IsChecksumMismatch(err error) bool {
	var mismatch *dc42.ChecksumMismatchError
	return errors.As(err, &mismatch)
}
