// Package romfs decodes ROMFS ("-rom1fs-") images into an in-memory tree.
//
// The whole image is held in memory and decoded with random access; entries
// reference each other by byte offset on disk and by ownership in memory.
// Node content slices alias the image buffer.
package romfs

import (
	"fmt"
	"os"

	"github.com/brettbedarf/romfs/config"
)

// Parse decodes image with the default config
func Parse(image []byte) (*Tree, error) {
	return NewParser(config.NewDefaultConfig()).BuildTree(image)
}

// ParseFile reads the whole file at path and decodes it with cfg.
// A nil cfg uses the defaults.
func ParseFile(path string, cfg *config.Config) (*Tree, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return NewParser(cfg).BuildTree(image)
}
