package romfs

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/brettbedarf/romfs/config"
	"github.com/brettbedarf/romfs/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headerImage returns a header with the given volume name followed by 64
// zero bytes of room for the root entry
func headerImage(volume string) []byte {
	buf := make([]byte, 16+len(volume)+1+64)
	copy(buf, Magic)
	binary.BigEndian.PutUint32(buf[8:], uint32(len(buf)))
	binary.BigEndian.PutUint32(buf[12:], 0xdeadbeef)
	copy(buf[16:], volume)
	return buf
}

func TestReadHeader_Fields(t *testing.T) {
	t.Parallel()

	image := headerImage("vela_misc")
	hdr, err := NewParser(nil).ReadHeader(image)

	require.NoError(t, err)
	assert.Equal(t, Header{
		Size:       uint32(len(image)),
		Checksum:   0xdeadbeef,
		VolumeName: "vela_misc",
		RootOffset: 32,
	}, hdr)
}

func TestReadHeader_NameBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		nameLen int
		exp     uint32
	}{
		{1, 32},
		{14, 32},
		{15, 32},
		// terminator lands on offset 32 and is not padded
		{16, 32},
		{17, 48},
		{31, 48},
		{32, 48},
		{33, 64},
	}

	for _, tt := range tests {
		t.Run(strings.Repeat("n", tt.nameLen), func(t *testing.T) {
			t.Parallel()
			hdr, err := NewParser(nil).ReadHeader(headerImage(strings.Repeat("n", tt.nameLen)))
			require.NoError(t, err)
			assert.Equal(t, tt.exp, hdr.RootOffset)
		})
	}
}

func TestReadHeader_BoundaryStraddle(t *testing.T) {
	t.Parallel()

	p := NewParser(nil)
	onBoundary, err := p.ReadHeader(headerImage(strings.Repeat("a", 16)))
	require.NoError(t, err)
	pastBoundary, err := p.ReadHeader(headerImage(strings.Repeat("a", 17)))
	require.NoError(t, err)

	assert.Equal(t, uint32(16), pastBoundary.RootOffset-onBoundary.RootOffset)
}

func TestReadHeader_BadMagic(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"zeros":     make([]byte, 64),
		"empty":     {},
		"short":     []byte("-rom1"),
		"swapped":   append([]byte("mor--sf1"), make([]byte, 56)...),
		"near miss": append([]byte("-rom2fs-"), make([]byte, 56)...),
	}
	for name, image := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := NewParser(nil).ReadHeader(image)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBadMagic)
		})
	}
}

func TestReadHeader_Truncated(t *testing.T) {
	t.Parallel()

	t.Run("Fixed fields", func(t *testing.T) {
		t.Parallel()
		_, err := NewParser(nil).ReadHeader([]byte(Magic + "\x00\x00"))
		assert.ErrorIs(t, err, ErrTruncated)
	})
	t.Run("Unterminated name", func(t *testing.T) {
		t.Parallel()
		image := append(make([]byte, 16), "no terminator"...)
		copy(image, Magic)
		_, err := NewParser(nil).ReadHeader(image)
		assert.ErrorIs(t, err, ErrTruncated)
	})
}

func TestReadHeader_SizeLargerThanImage(t *testing.T) {
	t.Parallel()

	image := headerImage("v")
	binary.BigEndian.PutUint32(image[8:], 1<<30)

	hdr, err := NewParser(nil).ReadHeader(image)

	require.NoError(t, err, "stored size is informational only")
	assert.Equal(t, uint32(1<<30), hdr.Size)
}

func TestReadHeader_NameEncoding(t *testing.T) {
	t.Parallel()

	image := headerImage("caf\xe9")

	t.Run("Strict", func(t *testing.T) {
		t.Parallel()
		_, err := NewParser(nil).ReadHeader(image)
		assert.ErrorIs(t, err, ErrInvalidUTF8)
	})
	t.Run("Replace", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig(&config.ConfigOverride{NameEncoding: util.Pointer(config.ReplaceEncoding)})
		hdr, err := NewParser(cfg).ReadHeader(image)
		require.NoError(t, err)
		assert.Equal(t, "caf\uFFFD", hdr.VolumeName)
	})
	t.Run("Latin1", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig(&config.ConfigOverride{NameEncoding: util.Pointer(config.Latin1Encoding)})
		hdr, err := NewParser(cfg).ReadHeader(image)
		require.NoError(t, err)
		assert.Equal(t, "café", hdr.VolumeName)
	})
}
