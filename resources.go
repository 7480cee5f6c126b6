package gpuimage

import (
	"fmt"
	"image"
	_ "image/jpeg" // decoders for DirResources
	_ "image/png"
	"io/fs"
	"path"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Resources resolves named assets such as overlay textures and curve files.
type Resources interface {
	// Image decodes the named image.
	Image(name string) (*Pixmap, error)

	// Open opens a raw asset.
	Open(name string) (fs.File, error)
}

// DirResources serves assets from a file system. Image names without an
// extension are tried with each of Extensions in order.
type DirResources struct {
	FS         fs.FS
	Extensions []string
}

var defaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff"}

// Open opens name from the file system.
func (d DirResources) Open(name string) (fs.File, error) {
	if d.FS == nil {
		return nil, fs.ErrNotExist
	}
	return d.FS.Open(name)
}

// Image decodes the named image into a Pixmap.
func (d DirResources) Image(name string) (*Pixmap, error) {
	candidates := []string{name}
	if path.Ext(name) == "" {
		exts := d.Extensions
		if len(exts) == 0 {
			exts = defaultImageExtensions
		}
		candidates = candidates[:0]
		for _, e := range exts {
			candidates = append(candidates, name+e)
		}
	}
	for _, c := range candidates {
		f, err := d.Open(c)
		if err != nil {
			continue
		}
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("gpuimage: decode %s: %w", c, err)
		}
		return FromImage(img), nil
	}
	return nil, fmt.Errorf("gpuimage: image %s: %w", name, fs.ErrNotExist)
}
