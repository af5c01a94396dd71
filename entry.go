package romfs

import (
	"bytes"
	"encoding/binary"
)

// WalkEntries decodes the chain of sibling entries starting at start and
// returns them in chain order. A start of 0 is the end-of-chain marker and
// yields no entries.
//
// Each record is next(4) info(4) size(4) checksum(4) followed by a NUL
// terminated name padded to 16 bytes, then the entry's data. The low 3 bits of
// next are the type tag and next with its low 4 bits cleared is the offset of
// the following sibling.
func (p *Parser) WalkEntries(image []byte, start uint32) ([]*Node, error) {
	return p.newDecoder(image).walkEntries(start)
}

func (d *decoder) walkEntries(start uint32) ([]*Node, error) {
	var nodes []*Node
	seen := make(map[uint32]struct{})
	for off := start; off != 0; {
		if _, ok := seen[off]; ok {
			return nil, formatErr(ErrLoop, off, "chain from 0x%x revisits entry", start)
		}
		seen[off] = struct{}{}

		node, next, err := d.readEntry(off)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		off = next
	}
	return nodes, nil
}

// readEntry decodes the record at off and returns it with the offset of its
// next sibling
func (d *decoder) readEntry(off uint32) (*Node, uint32, error) {
	d.entries++
	if d.cfg.MaxEntries > 0 && d.entries > d.cfg.MaxEntries {
		return nil, 0, formatErr(ErrTooManyEntries, off, "limit is %d", d.cfg.MaxEntries)
	}

	e := uint64(off)
	hdr, err := d.slice(e, entryHeaderLen)
	if err != nil {
		return nil, 0, err
	}
	next := binary.BigEndian.Uint32(hdr[entryNextOff:])
	tag := uint8(next & nextTypeMask)

	rawName, dataStart, err := d.readName(e + entryHeaderLen)
	if err != nil {
		return nil, 0, err
	}
	name, err := d.decodeName(rawName, off)
	if err != nil {
		return nil, 0, err
	}

	size := binary.BigEndian.Uint32(hdr[entrySizeOff:])
	content, err := d.slice(dataStart, uint64(size))
	if err != nil {
		return nil, 0, err
	}

	node := &Node{
		Type:       typeFromTag(tag),
		Tag:        tag,
		Exec:       next&nextExecMask != 0,
		Name:       name,
		EntryStart: off,
		Info:       binary.BigEndian.Uint32(hdr[entryInfoOff:]),
		Size:       size,
		Checksum:   binary.BigEndian.Uint32(hdr[entryChecksumOff:]),
		Content:    content,
	}
	return node, next & nextOffsetMask, nil
}

// readName reads 16-byte chunks from start until one holds a NUL. It returns
// the bytes before the NUL and the aligned offset just past it, where the
// entry's data begins.
func (d *decoder) readName(start uint64) ([]byte, uint64, error) {
	for pos := start; ; pos += alignment {
		chunk, err := d.slice(pos, alignment)
		if err != nil {
			return nil, 0, err
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			nul := pos + uint64(i)
			return d.image[start:nul], alignUp(nul + 1), nil
		}
	}
}
