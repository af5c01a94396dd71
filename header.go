package romfs

import (
	"bytes"
	"encoding/binary"

	"github.com/brettbedarf/romfs/internal/util"
)

// Header is the decoded image header
type Header struct {
	Size       uint32 // total image size as stored; not enforced
	Checksum   uint32 // stored header checksum; not verified
	VolumeName string
	RootOffset uint32 // offset of the root directory's entry record
}

// ReadHeader validates the signature and decodes the volume name, returning
// where the root directory's entry chain begins.
//
// The root offset is the offset of the volume name's NUL terminator rounded up
// to a multiple of 16. A terminator already on a 16-byte boundary is not
// rounded, so a 16 byte name ends at offset 32 with no padding block.
func (p *Parser) ReadHeader(image []byte) (Header, error) {
	return p.newDecoder(image).readHeader()
}

func (d *decoder) readHeader() (Header, error) {
	logger := util.GetLogger("ReadHeader")

	if !bytes.HasPrefix(d.image, []byte(Magic)) {
		return Header{}, &FormatError{Kind: ErrBadMagic, Offset: 0}
	}

	fixed, err := d.slice(0, volumeNameOff)
	if err != nil {
		return Header{}, err
	}
	hdr := Header{
		Size:     binary.BigEndian.Uint32(fixed[headerSizeOff:]),
		Checksum: binary.BigEndian.Uint32(fixed[headerChecksumOff:]),
	}
	if uint64(hdr.Size) > uint64(len(d.image)) {
		logger.Warn().Uint32("size", hdr.Size).Int("len", len(d.image)).Msg("Stored image size exceeds buffer")
	}

	nul := bytes.IndexByte(d.image[volumeNameOff:], 0)
	if nul < 0 {
		return Header{}, formatErr(ErrTruncated, volumeNameOff, "unterminated volume name")
	}
	end := uint64(volumeNameOff + nul)
	name, err := d.decodeName(d.image[volumeNameOff:end], volumeNameOff)
	if err != nil {
		return Header{}, err
	}
	hdr.VolumeName = name
	hdr.RootOffset = uint32(alignUp(end))

	logger.Debug().Str("volume", hdr.VolumeName).Uint32("size", hdr.Size).
		Uint32("root", hdr.RootOffset).Msg("Read header")
	return hdr, nil
}
