package cdnify

import (
	"path/filepath"
	"strings"
)

// Logical output names a Site resolves into the default Roots.
const (
	ImagesDir = "np_images"
	AssetsDir = "assets"
)

// A Root maps a local output directory to the path it is served from on the
// CDN
type Root struct {
	Dir    string // Absolute local directory
	Prefix string // CDN path segment, eg. "/images"
}

// Roots is an ordered table of output roots. Earlier entries win.
type Roots []Root

// NewRoot creates a Root, canonicalizing dir so that it compares equal to the
// canonical paths references resolve to.
func NewRoot(dir, prefix string) Root {
	return Root{
		Dir:    canonicalDir(dir),
		Prefix: prefix,
	}
}

// DefaultRoots builds the standard table of images then assets, with
// resolve mapping a logical output name to its local directory.
func DefaultRoots(resolve func(name string) string) Roots {
	return Roots{
		NewRoot(resolve(ImagesDir), "/images"),
		NewRoot(resolve(AssetsDir), "/assets"),
	}
}

// Classify finds the first root that path falls under, returning the length of
// the local prefix to strip and the CDN segment to put in its place. A path
// outside of every root gets (0, "").
func (rs Roots) Classify(path string) (int, string) {
	for _, r := range rs {
		if r.Dir != "" && strings.HasPrefix(path, r.Dir) {
			return len(r.Dir), r.Prefix
		}
	}

	return 0, ""
}

func canonicalDir(dir string) string {
	if dir == "" {
		return ""
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}

	// Output dirs might not exist before the first write; keep what was given
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}

	return canon
}
