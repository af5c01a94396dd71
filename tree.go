package romfs

import (
	"github.com/brettbedarf/romfs/internal/util"
)

// Tree is a fully decoded image
type Tree struct {
	Header Header
	Root   *Node
	// Nodes holds the root followed by every decoded entry in expansion order,
	// including the "." and ".." records that are never expanded
	Nodes []*Node
}

// BuildTree decodes the whole image. The root is synthesized from the header
// and every directory except "." entries is expanded exactly once.
// Any decode error aborts the build and no tree is returned.
func (p *Parser) BuildTree(image []byte) (*Tree, error) {
	logger := util.GetLogger("BuildTree")

	d := p.newDecoder(image)
	hdr, err := d.readHeader()
	if err != nil {
		return nil, err
	}

	root := &Node{
		Type:       DirNodeType,
		Tag:        TagDir,
		Name:       hdr.VolumeName,
		EntryStart: hdr.RootOffset,
	}
	tree := &Tree{Header: hdr, Root: root, Nodes: []*Node{root}}

	// first child offsets already walked; a second directory pointing at one
	// of them is left without children
	expanded := make(map[uint32]struct{})
	pending := []*Node{root}
	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		first, err := d.uint32At(uint64(dir.EntryStart) + entryInfoOff)
		if err != nil {
			return nil, err
		}
		if dir == root {
			root.Info = first
		}
		if first != 0 {
			if _, ok := expanded[first]; ok {
				logger.Warn().Str("name", dir.Name).Uint32("entry", dir.EntryStart).
					Uint32("first", first).Msg("Directory chain already expanded; skipping")
				continue
			}
			expanded[first] = struct{}{}
		}

		children, err := d.walkEntries(first)
		if err != nil {
			return nil, err
		}
		dir.Children = children
		tree.Nodes = append(tree.Nodes, children...)

		for _, c := range children {
			if c.IsDir() && c.Name != "." {
				pending = append(pending, c)
			}
		}
		logger.Trace().Str("name", dir.Name).Int("children", len(children)).Msg("Expanded directory")
	}

	logger.Debug().Str("volume", hdr.VolumeName).Int("nodes", len(tree.Nodes)).Msg("Built tree")
	return tree, nil
}

// Files returns the tree's file nodes in depth-first child order
func (t *Tree) Files() []*Node {
	var files []*Node
	t.Root.Walk(func(n *Node, _ int) bool {
		if n.Type == FileNodeType {
			files = append(files, n)
		}
		return true
	})
	return files
}
