package convert

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sergev/diskcopy/dc42"
	"github.com/sergev/diskcopy/hfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// hfsImage builds a raw volume of the given size whose MDB describes it.
func hfsImage(t *testing.T, blocks int, name string) []byte {
	t.Helper()
	img := make([]byte, blocks*hfs.BlockSize)
	for i := range img {
		img[i] = byte(i*7 + i>>9)
	}
	const firstBlock = 4
	mdb := img[hfs.MDBOffset : hfs.MDBOffset+hfs.MDBSize]
	clear(mdb)
	dc42.PutUint16(mdb[0:], hfs.Signature)
	dc42.PutUint16(mdb[18:], uint16(blocks-firstBlock-2))
	dc42.PutUint32(mdb[20:], hfs.BlockSize)
	dc42.PutUint16(mdb[28:], firstBlock)
	mdb[36] = byte(len(name))
	copy(mdb[37:], name)
	return img
}

func checksum(t *testing.T, data []byte) uint32 {
	t.Helper()
	sum := dc42.NewChecksum(0)
	require.NoError(t, sum.ConsumeBytes(data))
	return sum.Sum()
}

func TestCreate(t *testing.T) {
	testCases := []struct {
		blocks     int
		diskFormat uint8
	}{
		{800, dc42.DiskFormat400K},
		{1600, dc42.DiskFormat800K},
		{1440, dc42.DiskFormat720K},
		{2880, dc42.DiskFormat1440K},
	}
	for _, tc := range testCases {
		img := hfsImage(t, tc.blocks, "Untitled")
		var out bytes.Buffer
		header, err := Create(bytes.NewReader(img), &out, Options{})
		require.NoError(t, err, "blocks %d", tc.blocks)

		assert.Equal(t, tc.diskFormat, header.DiskFormat())
		assert.Equal(t, []byte("Untitled"), header.Name())
		assert.Equal(t, uint32(len(img)), header.DataSize())
		assert.Equal(t, checksum(t, img), header.DataChecksum())
		assert.Equal(t, int(header.TotalFileSize()), out.Len())

		b := header.Bytes()
		assert.Equal(t, b[:], out.Bytes()[:dc42.HeaderSize])
		assert.Equal(t, img, out.Bytes()[dc42.HeaderSize:])
	}
}

func TestCreateKeepsRawName(t *testing.T) {
	img := hfsImage(t, 800, "Caf\x8e")
	var out bytes.Buffer
	header, err := Create(bytes.NewReader(img), &out, Options{})
	require.NoError(t, err)
	assert.Equal(t, []byte("Caf\x8e"), header.Name())
	assert.Equal(t, "Café", header.DisplayName())
}

func TestCreateErrors(t *testing.T) {
	t.Run("BadSignature", func(t *testing.T) {
		img := hfsImage(t, 800, "Disk")
		img[hfs.MDBOffset] = 0
		_, err := Create(bytes.NewReader(img), &bytes.Buffer{}, Options{})
		assert.ErrorIs(t, err, hfs.ErrBadSignature)
	})
	t.Run("Geometry", func(t *testing.T) {
		img := hfsImage(t, 1000, "Disk")
		_, err := Create(bytes.NewReader(img), &bytes.Buffer{}, Options{})
		assert.ErrorIs(t, err, dc42.ErrUnrecognizedGeometry)
	})
	t.Run("Truncated", func(t *testing.T) {
		img := hfsImage(t, 800, "Disk")
		var out bytes.Buffer
		_, err := Create(bytes.NewReader(img[:len(img)-512]), &out, Options{})
		assert.ErrorIs(t, err, dc42.ErrShortRead)
		assert.Zero(t, out.Len(), "nothing is written before the checksum is known")
	})
	t.Run("TooSmall", func(t *testing.T) {
		_, err := Create(bytes.NewReader(make([]byte, 1100)), &bytes.Buffer{}, Options{})
		assert.ErrorIs(t, err, dc42.ErrShortRead)
	})
}

func TestRoundTrip(t *testing.T) {
	img := hfsImage(t, 1600, "Round Trip")
	var dc bytes.Buffer
	created, err := Create(bytes.NewReader(img), &dc, Options{})
	require.NoError(t, err)

	verified, err := Verify(bytes.NewReader(dc.Bytes()), Options{})
	require.NoError(t, err)
	assert.Equal(t, created, verified)

	var raw bytes.Buffer
	extracted, err := Extract(bytes.NewReader(dc.Bytes()), &raw, Options{})
	require.NoError(t, err)
	assert.Equal(t, created, extracted)
	assert.Equal(t, img, raw.Bytes())
}

func corruptImage(t *testing.T) []byte {
	t.Helper()
	var dc bytes.Buffer
	_, err := Create(bytes.NewReader(hfsImage(t, 800, "Bad")), &dc, Options{})
	require.NoError(t, err)
	b := dc.Bytes()
	b[dc42.HeaderSize+5000] ^= 0x01
	return b
}

func TestExtractChecksumMismatch(t *testing.T) {
	img := corruptImage(t)

	var raw bytes.Buffer
	_, err := Extract(bytes.NewReader(img), &raw, Options{})
	require.ErrorIs(t, err, dc42.ErrChecksumMismatch)
	assert.True(t, IsChecksumMismatch(err))

	core, logs := observer.New(zap.WarnLevel)
	raw.Reset()
	header, err := Extract(bytes.NewReader(img), &raw, Options{
		Logger:             zap.New(core),
		IgnoreDataChecksum: true,
	})
	require.NoError(t, err)
	assert.Equal(t, img[dc42.HeaderSize:], raw.Bytes())
	assert.Equal(t, uint32(800*512), header.DataSize())
	assert.Equal(t, 1, logs.FilterMessage("ignoring data checksum mismatch").Len())
}

func TestExtractInvalidHeader(t *testing.T) {
	var dc bytes.Buffer
	_, err := Create(bytes.NewReader(hfsImage(t, 800, "Disk")), &dc, Options{})
	require.NoError(t, err)
	b := dc.Bytes()
	b[82] = 0

	var raw bytes.Buffer
	_, err = Extract(bytes.NewReader(b), &raw, Options{IgnoreDataChecksum: true})
	assert.ErrorIs(t, err, dc42.ErrBadMagic)
	assert.False(t, IsChecksumMismatch(err))
	assert.Zero(t, raw.Len())
}

func TestVerifyErrors(t *testing.T) {
	_, err := Verify(bytes.NewReader(corruptImage(t)), Options{})
	var mismatch *dc42.ChecksumMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, dc42.RegionData, mismatch.Region)

	var dc bytes.Buffer
	_, err = Create(bytes.NewReader(hfsImage(t, 800, "Disk")), &dc, Options{})
	require.NoError(t, err)
	_, err = Verify(bytes.NewReader(dc.Bytes()[:dc.Len()-2]), Options{})
	assert.ErrorIs(t, err, dc42.ErrShortRead)
}

func TestVerifyExtendedCodes(t *testing.T) {
	var dc bytes.Buffer
	_, err := Create(bytes.NewReader(hfsImage(t, 800, "Disk")), &dc, Options{})
	require.NoError(t, err)
	b := dc.Bytes()
	b[81] = 0x96

	_, err = Verify(bytes.NewReader(b), Options{})
	require.ErrorIs(t, err, dc42.ErrUnrecognizedFormatByte)

	_, err = Verify(bytes.NewReader(b), Options{Codes: dc42.DefaultCodes().WithFormatByte(0x96, "GCR zero fill")})
	assert.NoError(t, err)
}

func TestVerifyTrailingBytes(t *testing.T) {
	var dc bytes.Buffer
	_, err := Create(bytes.NewReader(hfsImage(t, 800, "Disk")), &dc, Options{})
	require.NoError(t, err)
	dc.Write([]byte{0, 0})

	core, logs := observer.New(zap.WarnLevel)
	_, err = Verify(bytes.NewReader(dc.Bytes()), Options{Logger: zap.New(core)})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("image has trailing bytes").Len())
}

func TestCreateLogsVolumeName(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	_, err := Create(bytes.NewReader(hfsImage(t, 800, "Caf\x8e")), &bytes.Buffer{}, Options{Logger: zap.New(core)})
	require.NoError(t, err)

	entries := logs.FilterMessage("HFS volume").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Café", entries[0].ContextMap()["name"])
	assert.Equal(t, uint64(800), entries[0].ContextMap()["blocks"])
}
