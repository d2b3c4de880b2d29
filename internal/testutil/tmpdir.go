// Package testutil holds helpers shared by tests
package testutil

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/thatguystone/cog/cfs"
	"github.com/thatguystone/cog/check"
)

// A TmpDir is an output tree for testing. Its root is canonical, so paths
// built from it compare equal to resolved paths.
type TmpDir struct {
	c    *check.C
	root string
}

// NewTmpDir creates a new temp directory populated with files, keyed by path
// relative to the root
func NewTmpDir(c *check.C, files map[string]string) *TmpDir {
	root, err := ioutil.TempDir("", "cdnify-test-")
	c.Must.Nil(err)

	// On some systems the temp dir itself lives behind a symlink
	canon, err := filepath.EvalSymlinks(root)
	c.Must.Nil(err)

	tmp := &TmpDir{
		c:    c,
		root: canon,
	}

	for path, content := range files {
		tmp.WriteFile(path, content)
	}

	return tmp
}

// Remove removes the temp dir and everything in it
func (tmp *TmpDir) Remove() {
	err := os.RemoveAll(tmp.root)
	tmp.c.Nil(err)
}

// Path gets the absolute path to a file in the temp dir
func (tmp *TmpDir) Path(p string) string {
	return filepath.Join(tmp.root, filepath.Clean("/"+p))
}

// Mkdir creates a directory, and its parents, in the temp dir
func (tmp *TmpDir) Mkdir(path string) {
	err := os.MkdirAll(tmp.Path(path), 0750)
	tmp.c.Must.Nil(err)
}

// Symlink creates a link at path pointing to target. target is used as
// given, so relative targets are relative to path's directory.
func (tmp *TmpDir) Symlink(target, path string) {
	path = tmp.Path(path)

	err := os.MkdirAll(filepath.Dir(path), 0750)
	tmp.c.Must.Nil(err)

	err = os.Symlink(target, path)
	tmp.c.Must.Nil(err)
}

// DumpTree dumps the FS tree of the temp dir to the test's logger
func (tmp *TmpDir) DumpTree() {
	tmp.c.Helper()
	tmp.c.Logf("Tree rooted at: %q", tmp.root)

	filepath.Walk(tmp.root, func(path string, info os.FileInfo, err error) error {
		tmp.c.Must.Nil(err)

		if !info.IsDir() {
			rel, err := filepath.Rel(tmp.root, path)
			tmp.c.Must.Nil(err)

			tmp.c.Logf("\t/%s", rel)
		}

		return nil
	})
}

// ReadFile reads a file from the temp dir
func (tmp *TmpDir) ReadFile(path string) string {
	b, err := ioutil.ReadFile(tmp.Path(path))
	tmp.c.Must.Nil(err)
	return string(b)
}

// Exists checks if a file exists in the temp dir
func (tmp *TmpDir) Exists(path string) bool {
	ok, err := cfs.FileExists(tmp.Path(path))
	tmp.c.Must.Nil(err)
	return ok
}

// WriteFile writes a file to the temp dir, creating parents as necessary
func (tmp *TmpDir) WriteFile(path string, b string) {
	path = tmp.Path(path)

	err := os.MkdirAll(filepath.Dir(path), 0750)
	tmp.c.Must.Nil(err)

	err = ioutil.WriteFile(path, []byte(b), 0640)
	tmp.c.Must.Nil(err)
}
