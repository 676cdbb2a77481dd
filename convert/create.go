package convert

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sergev/diskcopy/dc42"
	"github.com/sergev/diskcopy/hfs"
	"go.uber.org/zap"
)

// Create writes a Disk Copy 4.2 image of the raw HFS volume in src to dst.
// The volume size and name come from the Master Directory Block.
func Create(src io.ReadSeeker, dst io.Writer, opts Options) (dc42.Header, error) {
	log := opts.logger()

	mdb, err := hfs.ReadMDB(src)
	if err != nil {
		return dc42.Header{}, err
	}
	log.Debug("read HFS master directory block", zap.Stringer("mdb", mdb))

	blocks, err := mdb.Valid()
	if err != nil {
		return dc42.Header{}, err
	}
	if blocks > math.MaxUint32/hfs.BlockSize {
		return dc42.Header{}, fmt.Errorf("%w: HFS block count %d", dc42.ErrUnrecognizedGeometry, blocks)
	}
	rawName, err := mdb.RawVolumeName()
	if err != nil {
		return dc42.Header{}, err
	}

	size := uint32(blocks) * hfs.BlockSize
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return dc42.Header{}, fmt.Errorf("%w: HFS image: %w", dc42.ErrSeek, err)
	}
	sum := dc42.NewChecksum(0)
	if err := sum.ConsumeStream(src, size); err != nil {
		return dc42.Header{}, fmt.Errorf("HFS image: %w", err)
	}

	header, err := dc42.CreateForHFS(string(rawName), uint32(blocks), sum.Sum(), 0, 0)
	if err != nil {
		return dc42.Header{}, err
	}
	log.Info("HFS volume", zap.String("name", header.DisplayName()), zap.Uint64("blocks", blocks))
	log.Debug("created header", zap.Stringer("header", header))

	if _, err := header.WriteTo(dst); err != nil {
		return dc42.Header{}, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return dc42.Header{}, fmt.Errorf("%w: HFS image: %w", dc42.ErrSeek, err)
	}
	n, err := io.CopyN(dst, src, int64(size))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dc42.Header{}, fmt.Errorf("%w: HFS image: copied %d of %d bytes", dc42.ErrShortRead, n, size)
		}
		return dc42.Header{}, fmt.Errorf("failed to copy HFS image after %d bytes: %w", n, err)
	}
	return header, nil
}
