package dc42

import (
	"errors"
	"fmt"
	"io"
)

// chunkSize bounds the buffer used when checksumming a stream.
const chunkSize = 1024

// Checksum is the Disk Copy 4.2 rolling checksum: for each big-endian
// 16-bit word, add it to the 32-bit sum and rotate the sum right by one bit.
type Checksum struct {
	sum   uint32
	words uint64
}

// NewChecksum returns a checksum starting from the given value, usually 0.
func NewChecksum(initial uint32) *Checksum {
	return &Checksum{sum: initial}
}

// Update folds one word into the sum and returns the new value.
func (c *Checksum) Update(word uint16) uint32 {
	s := c.sum + uint32(word)
	if s&1 != 0 {
		c.sum = 0x80000000 | ((s >> 1) & 0x7fffffff)
	} else {
		c.sum = 0x7fffffff & (s >> 1)
	}
	c.words++
	return c.sum
}

// Sum returns the current value without resetting it.
func (c *Checksum) Sum() uint32 {
	return c.sum
}

// Words returns the number of words folded in so far.
func (c *Checksum) Words() uint64 {
	return c.words
}

// ConsumeBytes folds every word of buf in order.
func (c *Checksum) ConsumeBytes(buf []byte) error {
	if len(buf)%2 != 0 {
		return fmt.Errorf("%w: cannot checksum %d bytes after %d words", ErrMisalignedLength, len(buf), c.words)
	}
	for i := 0; i < len(buf); i += 2 {
		c.Update(ReadUint16(buf[i:]))
	}
	return nil
}

// ConsumeStream reads exactly byteCount bytes from r in bounded chunks and
// folds them into the sum.
func (c *Checksum) ConsumeStream(r io.Reader, byteCount uint32) error {
	if byteCount%2 != 0 {
		return fmt.Errorf("%w: cannot checksum %d bytes", ErrMisalignedLength, byteCount)
	}

	var buf [chunkSize]byte
	remaining := byteCount
	var done uint32
	for remaining > 0 {
		n := uint32(chunkSize)
		if remaining < n {
			n = remaining
		}
		got, err := io.ReadFull(r, buf[:n])
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: read %d bytes, %d bytes remaining",
					ErrShortRead, done+uint32(got), remaining-uint32(got))
			}
			return fmt.Errorf("failed to read %d bytes after %d bytes: %w", n, done, err)
		}
		if err := c.ConsumeBytes(buf[:n]); err != nil {
			return err
		}
		done += n
		remaining -= n
	}
	return nil
}
