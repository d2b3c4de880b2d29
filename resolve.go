package cdnify

import (
	"path"
	"path/filepath"
	"strings"
)

// A Resolver turns references found in a document into CDN URLs. It holds no
// mutable state and may be shared between goroutines.
type Resolver struct {
	baseURL string
	exts    map[string]struct{}
	roots   Roots
}

// NewResolver creates a Resolver from the given options
func NewResolver(opts ...Option) *Resolver {
	return newResolver(newSettings(opts))
}

func newResolver(cfg settings) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(cfg.baseURL, "/"),
		exts:    cfg.exts,
		roots:   cfg.roots,
	}
}

// Resolve rewrites ref, as found in the document written to docPath, to its
// CDN URL. If ref should be left alone, ok is false.
//
// A reference is left alone when it is empty, when its extension is not
// allowed, or when it does not name an existing local file.
func (rsv *Resolver) Resolve(ref, docPath string) (u string, ok bool) {
	if ref == "" || !rsv.allowed(ref) {
		return "", false
	}

	local, ok := localPath(ref, docPath)
	if !ok {
		return "", false
	}

	n, seg := rsv.roots.Classify(local)
	return rsv.baseURL + seg + filepath.ToSlash(local[n:]), true
}

// allowed checks if ref has an extension that may be rewritten
func (rsv *Resolver) allowed(ref string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(ref), "."))
	if ext == "" {
		return false
	}

	_, ok := rsv.exts[ext]
	return ok
}

// localPath finds the canonical path of ref relative to the directory
// containing docPath. The file must exist.
func localPath(ref, docPath string) (string, bool) {
	p := filepath.Join(filepath.Dir(docPath), filepath.FromSlash(ref))

	p, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}

	canon, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", false
	}

	return canon, true
}
