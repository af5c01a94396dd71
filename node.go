package romfs

// NodeType is the decoded kind of an entry. Valid types are DirNodeType "dir",
// FileNodeType "file", HardlinkNodeType "hlink", BlockNodeType "block" and
// UnknownNodeType "unknown".
type NodeType string

const (
	HardlinkNodeType NodeType = "hlink"
	DirNodeType      NodeType = "dir"
	FileNodeType     NodeType = "file"
	BlockNodeType    NodeType = "block"
	UnknownNodeType  NodeType = "unknown"
)

// Raw type tags stored in the low bits of an entry's next field
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

// typeFromTag maps a raw tag to its NodeType. Tags without their own NodeType
// (symlink, char device, socket, fifo) are unknown; Node.Tag keeps the detail.
func typeFromTag(tag uint8) NodeType {
	switch tag {
	case TagHardlink:
		return HardlinkNodeType
	case TagDir:
		return DirNodeType
	case TagFile:
		return FileNodeType
	case TagBlockDev:
		return BlockNodeType
	default:
		return UnknownNodeType
	}
}

// Node is one decoded entry. Directories own their Children; every other type
// has none. Nodes hold no reference to their parent.
type Node struct {
	Type       NodeType
	Tag        uint8  // raw 3-bit type tag
	Exec       bool   // executable bit of the next field
	Name       string // may be empty
	EntryStart uint32 // offset of the entry record; identity only
	Info       uint32 // type specific: first child for dirs, target entry for hard links
	Size       uint32
	Checksum   uint32 // stored value, not verified

	// Content is image[data_start : data_start+Size] for every type, not only files.
	// It aliases the image buffer.
	Content  []byte
	Children []*Node
}

// IsDir reports whether the node is a directory
func (n *Node) IsDir() bool {
	return n.Type == DirNodeType
}

// IsSelf reports whether the node is a directory's "." entry
func (n *Node) IsSelf() bool {
	return n.Type == DirNodeType && n.Name == "."
}

// LinkTarget returns the entry offset a hard link points at.
// ok is false for any other node type. The target is not resolved.
func (n *Node) LinkTarget() (offset uint32, ok bool) {
	if n.Type != HardlinkNodeType {
		return 0, false
	}
	return n.Info, true
}

// Walk calls fn for n and every descendant, depth first in child order.
// depth is 0 for n. Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
