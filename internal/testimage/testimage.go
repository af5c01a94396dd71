// Package testimage builds small romfs images for tests.
//
// Layout follows genromfs: every directory chain starts with a "." directory
// entry whose info points at the chain itself and a ".." hard link to the
// parent's chain, followed by the directory's own entries.
package testimage

import (
	"encoding/binary"
)

// Type tags as stored in the low bits of the next field
const (
	TagHardlink uint8 = iota
	TagDir
	TagFile
	TagSymlink
	TagBlockDev
	TagCharDev
	TagSocket
	TagFifo
)

// Entry describes one record to lay out
type Entry struct {
	Name     string
	Tag      uint8
	Exec     bool
	Content  []byte
	Children []*Entry // for TagDir
	LinkTo   *Entry   // for TagHardlink

	off   uint32   // offset of this record
	first uint32   // dirs: offset of the first record of the chain
	info  uint32   // resolved info field
	chain []*Entry // dirs: ".", "..", then Children
}

// Offset returns the record offset assigned by the last Build
func (e *Entry) Offset() uint32 { return e.off }

// First returns the offset of a directory's chain assigned by the last Build
func (e *Entry) First() uint32 { return e.first }

func File(name, content string) *Entry {
	return &Entry{Name: name, Tag: TagFile, Content: []byte(content)}
}

func Dir(name string, children ...*Entry) *Entry {
	return &Entry{Name: name, Tag: TagDir, Children: children}
}

func Link(name string, target *Entry) *Entry {
	return &Entry{Name: name, Tag: TagHardlink, LinkTo: target}
}

// Special returns an entry with an arbitrary tag and no content
func Special(name string, tag uint8) *Entry {
	return &Entry{Name: name, Tag: tag}
}

// Image is the result of a Build
type Image struct {
	Bytes []byte
	Root  *Entry // synthetic root directory; Root.First() is the root offset
}

// Build lays out volume and entries as the contents of the root directory.
// The volume name is padded the way genromfs pads it: the name plus its NUL
// rounded up to 16. ReadHeader rounds up from the NUL position instead, so for
// a name whose length is a multiple of 16 the two disagree by one block.
func Build(volume string, entries ...*Entry) *Image {
	root := Dir(volume, entries...)
	off := alignUp(16 + uint32(len(volume)) + 1)

	queue := []*Entry{root}
	parents := map[*Entry]*Entry{root: root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		dot := &Entry{Name: ".", Tag: TagDir}
		dotdot := &Entry{Name: "..", Tag: TagHardlink}
		dir.chain = append([]*Entry{dot, dotdot}, dir.Children...)
		dir.first = off
		for _, e := range dir.chain {
			e.off = off
			off += e.recordLen()
		}
		dot.info = dir.first
		dotdot.info = parents[dir].first
		for _, c := range dir.Children {
			if c.Tag == TagDir {
				parents[c] = dir
				queue = append(queue, c)
			}
		}
	}

	buf := make([]byte, off)
	copy(buf, "-rom1fs-")
	binary.BigEndian.PutUint32(buf[8:], off)
	copy(buf[16:], volume)

	writeChains(buf, root)
	return &Image{Bytes: buf, Root: root}
}

func writeChains(buf []byte, dir *Entry) {
	for i, e := range dir.chain {
		var next uint32
		if i+1 < len(dir.chain) {
			next = dir.chain[i+1].off
		}
		next |= uint32(e.Tag)
		if e.Exec {
			next |= 0x8
		}
		info := e.info
		switch {
		case e.Tag == TagDir && e.Name != ".":
			info = e.first
		case e.LinkTo != nil:
			info = e.LinkTo.off
		}
		binary.BigEndian.PutUint32(buf[e.off:], next)
		binary.BigEndian.PutUint32(buf[e.off+4:], info)
		binary.BigEndian.PutUint32(buf[e.off+8:], uint32(len(e.Content)))
		copy(buf[e.off+16:], e.Name)
		copy(buf[e.off+16+alignUp(uint32(len(e.Name))+1):], e.Content)

		if e.Tag == TagDir && e.Name != "." {
			writeChains(buf, e)
		}
	}
}

func (e *Entry) recordLen() uint32 {
	return 16 + alignUp(uint32(len(e.Name))+1) + alignUp(uint32(len(e.Content)))
}

func alignUp(n uint32) uint32 {
	return (n + 15) &^ 15
}
