package site

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/thatguystone/cdnify"
	"golang.org/x/sync/errgroup"
)

// Stats describes a finished build
type Stats struct {
	Pages     int // Pages looked at
	Written   int // Pages that changed and were written back
	Rewritten int // References rewritten across all pages
}

// A Build rewrites every page of a Site with a Plugin
type Build struct {
	Site   *Site
	Plugin *cdnify.Plugin
	Log    cdnify.Logger

	mtx   sync.Mutex
	stats Stats
	errs  Error
}

// Run performs the build. Pages are rewritten concurrently, and a page is only
// written back when its contents changed. Errors for individual pages don't
// stop other pages; they're all returned together as an Error.
func (b *Build) Run(ctx context.Context) (Stats, error) {
	b.stats = Stats{}
	b.errs = make(Error)

	pgs, err := b.Site.Pages()
	if err != nil {
		return Stats{}, err
	}

	b.Plugin.SiteWriteStarted(b.Site)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers())

	for _, pg := range pgs {
		pg := pg

		if gctx.Err() != nil {
			break
		}

		eg.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			b.page(pg)
			return nil
		})
	}

	// Wait always cancels gctx, so only the caller's ctx says if the build
	// was interrupted
	err = eg.Wait()
	if err == nil {
		err = ctx.Err()
	}

	if err != nil {
		return b.stats, err
	}

	return b.stats, b.errs.getError()
}

func (b *Build) workers() int {
	n := b.Site.cfg.Workers
	if n <= 0 {
		n = 1
	}

	return n
}

func (b *Build) page(pg *Page) {
	path := pg.path()

	orig, err := ioutil.ReadFile(path)
	if err != nil {
		b.addError(pg, errors.Wrap(err, "failed to read page"))
		return
	}

	pg.doc, err = goquery.NewDocumentFromReader(bytes.NewReader(orig))
	if err != nil {
		b.addError(pg, errors.Wrap(err, "failed to parse page"))
		return
	}

	st := b.Plugin.Rewrite(pg)

	out, err := b.render(pg)
	if err != nil {
		b.addError(pg, err)
		return
	}

	written := false
	if !bytes.Equal(out, orig) {
		err = ioutil.WriteFile(path, out, 0644)
		if err != nil {
			b.addError(pg, errors.Wrap(err, "failed to write page"))
			return
		}

		written = true
	}

	if b.Log != nil && written {
		b.Log.Log(fmt.Sprintf("%s: %d rewritten", pg.dst, st.Rewritten))
	}

	b.mtx.Lock()
	b.stats.Pages++
	b.stats.Rewritten += st.Rewritten
	if written {
		b.stats.Written++
	}
	b.mtx.Unlock()
}

func (b *Build) render(pg *Page) ([]byte, error) {
	html, err := pg.doc.Html()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render page")
	}

	out := []byte(html)
	if b.Site.cfg.Minify {
		out, err = cdnify.Minify.Bytes("text/html", out)
		if err != nil {
			return nil, errors.Wrap(err, "failed to minify page")
		}
	}

	return out, nil
}

func (b *Build) addError(pg *Page, err error) {
	if b.Log != nil {
		b.Log.Error(err, pg.dst)
	}

	b.mtx.Lock()
	b.errs.add(pg.dst, err)
	b.mtx.Unlock()
}
