// Package site writes rewritten pages back into a generated site
package site

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/thatguystone/cdnify"
	"github.com/thatguystone/cdnify/internal/config"
	"github.com/thatguystone/cog/cfs"
)

// Site is a generated site sitting in an output directory
type Site struct {
	cfg *config.C
}

// New creates a Site for the given config
func New(cfg *config.C) *Site {
	return &Site{
		cfg: cfg,
	}
}

// DestinationPath implements cdnify.Site
func (s *Site) DestinationPath(name string) string {
	return s.cfg.Dir(filepath.FromSlash(name))
}

// Pages finds every HTML page in the output directory
func (s *Site) Pages() ([]*Page, error) {
	if exists, _ := cfs.DirExists(s.cfg.Output); !exists {
		return nil, errors.Errorf("output dir %s does not exist", s.cfg.Output)
	}

	var pgs []*Page

	err := filepath.Walk(s.cfg.Output,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || !isHTML(path) {
				return nil
			}

			rel, err := filepath.Rel(s.cfg.Output, path)
			if err != nil {
				return err
			}

			pgs = append(pgs, &Page{
				site: s,
				dst:  filepath.ToSlash(rel),
			})

			return nil
		})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find pages in %s", s.cfg.Output)
	}

	return pgs, nil
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}

	return false
}

// A Page is a single HTML file in a Site. It is both the content and the
// event handed to the plugin.
type Page struct {
	site *Site
	dst  string
	doc  *goquery.Document
}

var (
	_ cdnify.Content = (*Page)(nil)
	_ cdnify.Event   = (*Page)(nil)
)

// Destination is the page's path relative to the output directory
func (pg *Page) Destination() string { return pg.dst }

// HasDOM checks if the page was parsed
func (pg *Page) HasDOM() bool { return pg.doc != nil }

// DOM gets the parsed page
func (pg *Page) DOM() *goquery.Document { return pg.doc }

// Content gets the page itself
func (pg *Page) Content() cdnify.Content { return pg }

// Site gets the site the page is in
func (pg *Page) Site() cdnify.Site { return pg.site }

func (pg *Page) path() string {
	return pg.site.DestinationPath(pg.dst)
}
