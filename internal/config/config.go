package config

import (
	"io/ioutil"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/thatguystone/cdnify"
	"gopkg.in/yaml.v2"
)

// C stands for "config".
type C struct {
	// CDN to point references at
	BaseURL string `yaml:"base_url"`

	// Extensions that may be rewritten
	Extensions []string

	// Directory holding the generated site
	Output string

	// Output dirs, relative to Output, served from /images and /assets
	ImagesDir string `yaml:"images_dir"`
	AssetsDir string `yaml:"assets_dir"`

	// If rewritten pages should be minified
	Minify bool

	// Number of pages to rewrite at once
	Workers int

	// For debugging
	Debug bool
}

// New creates a config with all defaults set
func New() *C {
	return &C{
		BaseURL:    cdnify.DefaultBaseURL,
		Extensions: append([]string(nil), cdnify.DefaultExtensions...),
		Output:     "public/",
		ImagesDir:  cdnify.ImagesDir,
		AssetsDir:  cdnify.AssetsDir,
		Workers:    runtime.GOMAXPROCS(-1),
	}
}

// Load extra configs on top of this config.
func (c *C) Load(files ...string) error {
	for _, file := range files {
		b, err := ioutil.ReadFile(file)
		if err != nil {
			return errors.Wrap(err, "failed to read config file")
		}

		err = yaml.UnmarshalStrict(b, c)
		if err != nil {
			return errors.Wrapf(err, "failed to unmarshal config file %s", file)
		}
	}

	return nil
}

// InDir makes Output absolute, relative to dir.
func (c C) InDir(dir string) *C {
	if !filepath.IsAbs(c.Output) {
		c.Output = filepath.Join(dir, c.Output)
	}

	return &c
}

// Dir gets the local directory for one of the logical output names, or joins
// any other name onto Output.
func (c C) Dir(name string) string {
	switch name {
	case cdnify.ImagesDir:
		name = c.ImagesDir

	case cdnify.AssetsDir:
		name = c.AssetsDir
	}

	return filepath.Join(c.Output, name)
}

// Params gets the rewriter options as a host would pass them
func (c C) Params() cdnify.Params {
	return cdnify.Params{
		BaseURL:    c.BaseURL,
		Extensions: strings.Join(c.Extensions, ","),
	}
}

// SetParams replaces the rewriter options with ps
func (c *C) SetParams(ps cdnify.Params) {
	c.BaseURL = ps.BaseURL
	c.Extensions = strings.Split(ps.Extensions, ",")
}

// Options converts the config to rewriter options
func (c C) Options() []cdnify.Option {
	return []cdnify.Option{
		cdnify.BaseURL(c.BaseURL),
		cdnify.Extensions(c.Extensions...),
	}
}
