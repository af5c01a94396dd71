package romfs

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/brettbedarf/romfs/config"
	"golang.org/x/text/encoding/charmap"
)

// Magic is the signature every image starts with
const Magic = "-rom1fs-"

// Header layout
const (
	headerSizeOff     = 8
	headerChecksumOff = 12
	volumeNameOff     = 16
)

// Entry record layout. All fields are big-endian uint32.
const (
	entryNextOff     = 0
	entryInfoOff     = 4
	entrySizeOff     = 8
	entryChecksumOff = 12
	entryHeaderLen   = 16
)

// The next field packs the type tag, exec bit and next entry offset
const (
	nextTypeMask   uint32 = 0x7
	nextExecMask   uint32 = 0x8
	nextOffsetMask uint32 = ^uint32(0xf)
)

// alignment of names, entry records and data
const alignment = 16

// alignUp rounds off up to the next multiple of 16; aligned values are unchanged
func alignUp(off uint64) uint64 {
	return (off + alignment - 1) &^ (alignment - 1)
}

// Parser decodes romfs images according to its config. A Parser holds no
// per-image state and may be reused.
type Parser struct {
	cfg *config.Config
}

// NewParser creates a Parser. A nil cfg uses [config.NewDefaultConfig].
func NewParser(cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Parser{cfg: cfg}
}

// decoder carries the state of one decode pass over an image
type decoder struct {
	cfg     *config.Config
	image   []byte
	entries int // entries decoded so far, checked against cfg.MaxEntries
}

func (p *Parser) newDecoder(image []byte) *decoder {
	return &decoder{cfg: p.cfg, image: image}
}

// slice returns image[off : off+n] with its capacity capped at n
func (d *decoder) slice(off, n uint64) ([]byte, error) {
	size := uint64(len(d.image))
	if off > size || n > size-off {
		return nil, formatErr(ErrTruncated, uint32(off), "need %d bytes, image has %d", off+n, size)
	}
	return d.image[off : off+n : off+n], nil
}

func (d *decoder) uint32At(off uint64) (uint32, error) {
	b, err := d.slice(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// decodeName converts raw name bytes according to the configured encoding.
// off is the offset reported on failure.
func (d *decoder) decodeName(raw []byte, off uint32) (string, error) {
	switch d.cfg.NameEncoding {
	case config.ReplaceEncoding:
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
	case config.Latin1Encoding:
		s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", &FormatError{Kind: ErrInvalidUTF8, Offset: off, Err: err}
		}
		return string(s), nil
	default:
		if !utf8.Valid(raw) {
			return "", formatErr(ErrInvalidUTF8, off, "%q", raw)
		}
		return string(raw), nil
	}
}
