package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/brettbedarf/romfs"
	"github.com/brettbedarf/romfs/internal/testimage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, img *testimage.Image) *romfs.Tree {
	t.Helper()
	tree, err := romfs.Parse(img.Bytes)
	require.NoError(t, err)
	return tree
}

func TestPrint(t *testing.T) {
	t.Parallel()

	tree := parse(t, testimage.Build("rootfs",
		testimage.File("init", "#!/bin/sh\n"),
		testimage.Dir("etc",
			testimage.File("hostname", "romfs\n"),
			testimage.Dir("init.d", testimage.File("rcS", "")),
		),
		testimage.Dir("var"),
		testimage.Special("console", testimage.TagCharDev),
	))

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, tree.Root))

	assert.Equal(t, strings.Join([]string{
		"rootfs",
		"\tinit",
		"\tetc",
		"\t\thostname",
		"\t\tinit.d",
		"\t\t\trcS",
		"\tvar",
	}, "\n")+"\n", buf.String())
}

func TestPrint_NeverPrintsDot(t *testing.T) {
	t.Parallel()

	tree := parse(t, testimage.Build("v", testimage.Dir("d", testimage.Dir("e"))))

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, tree.Root))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		name := strings.TrimLeft(line, "\t")
		assert.NotEqual(t, ".", name)
		assert.NotEqual(t, "..", name)
	}
	assert.Equal(t, "v\n\td\n\t\te\n", buf.String())
}

func row(off uint32, size int, path string) string {
	return fmt.Sprintf("0x%08x  %8d  %s", off, size, path)
}

func TestList(t *testing.T) {
	t.Parallel()

	a := testimage.File("a", "hi")
	d := testimage.Dir("d")
	l := testimage.Link("l", a)
	tool := testimage.File("tool", "")
	tool.Exec = true
	img := testimage.Build("v", a, d, l, testimage.Special("sock", testimage.TagSocket), tool)
	tree := parse(t, img)

	var buf bytes.Buffer
	require.NoError(t, List(&buf, tree))

	root := img.Root.First()
	assert.Equal(t, strings.Join([]string{
		"    offset      size  filename",
		row(root, 0, "/./"),
		row(root+32, 0, "/.. -> ./"),
		row(a.Offset(), 2, "/a"),
		row(d.Offset(), 0, "/d/"),
		row(d.First(), 0, "/d/./"),
		row(d.First()+32, 0, "/d/.. -> ./"),
		row(l.Offset(), 0, "/l -> a"),
		row(l.Offset()+32, 0, "/sock="),
		row(tool.Offset(), 0, "/tool"),
	}, "\n")+"\n", buf.String())
}

func TestList_DanglingLink(t *testing.T) {
	t.Parallel()

	l := testimage.Link("l", nil)
	img := testimage.Build("v", l)
	tree := parse(t, img)

	var buf bytes.Buffer
	require.NoError(t, List(&buf, tree))

	assert.Contains(t, buf.String(), row(l.Offset(), 0, "/l -> 0x0"))
}
