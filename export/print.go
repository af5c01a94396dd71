// Package export renders a decoded romfs tree: as an indented name listing,
// as an offset/size table, or as files and directories on a [Sink].
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/brettbedarf/romfs"
)

// Print writes the name of every directory and file under root, one per line,
// indented by one tab per level. "." entries are skipped; root is at level 0.
func Print(w io.Writer, root *romfs.Node) error {
	bw := bufio.NewWriter(w)
	root.Walk(func(n *romfs.Node, depth int) bool {
		if (n.IsDir() && !n.IsSelf()) || n.Type == romfs.FileNodeType {
			fmt.Fprintf(bw, "%s%s\n", strings.Repeat("\t", depth), n.Name)
		}
		return true
	})
	return bw.Flush()
}

// type suffixes by raw tag, as ls -F would show them
var tagSuffix = [8]string{"", "/", "", "@", "*", "*", "=", "="}

// List writes one line per decoded entry with its record offset, size and
// path. Hard links show the name of their target when the target is in tree.
func List(w io.Writer, tree *romfs.Tree) error {
	byOffset := make(map[uint32]*romfs.Node, len(tree.Nodes))
	for _, n := range tree.Nodes[1:] {
		byOffset[n.EntryStart] = n
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "    offset      size  filename\n")

	var visit func(dir *romfs.Node, prefix string)
	visit = func(dir *romfs.Node, prefix string) {
		for _, n := range dir.Children {
			line := n.Name + tagSuffix[n.Tag&7]
			if target, ok := n.LinkTarget(); ok {
				if t, found := byOffset[target]; found {
					line += " -> " + t.Name + tagSuffix[t.Tag&7]
				} else {
					line += fmt.Sprintf(" -> 0x%x", target)
				}
			}
			fmt.Fprintf(bw, "0x%08x  %8d  %s/%s\n", n.EntryStart, n.Size, prefix, line)
			if len(n.Children) > 0 {
				visit(n, prefix+"/"+n.Name)
			}
		}
	}
	visit(tree.Root, "")
	return bw.Flush()
}
