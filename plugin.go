package cdnify

import (
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// A Site knows where its output goes
type Site interface {
	// DestinationPath maps a logical output name, or a content destination, to
	// an absolute local path
	DestinationPath(name string) string
}

// Content is a single generated item
type Content interface {
	Destination() string
}

// An Event is fired once a document's markup is final
type Event interface {
	HasDOM() bool
	DOM() *goquery.Document
	Content() Content
	Site() Site
}

// Plugin hooks a Rewriter into a site generation pipeline
type Plugin struct {
	opts []Option

	mtx sync.Mutex
	rw  *Rewriter
}

// NewPlugin creates a Plugin. Roots are filled in from the Site when it starts
// writing, unless WithRoots is given.
func NewPlugin(opts ...Option) *Plugin {
	return &Plugin{
		opts: opts,
	}
}

// SiteWriteStarted builds the output root table for s. It must be called
// before any documents of s are written.
func (p *Plugin) SiteWriteStarted(s Site) {
	rw := p.newRewriter(s)

	p.mtx.Lock()
	p.rw = rw
	p.mtx.Unlock()
}

// ContentLayoutApplied rewrites the event's document. Events without a DOM are
// ignored.
func (p *Plugin) ContentLayoutApplied(ev Event) {
	p.Rewrite(ev)
}

// Rewrite is ContentLayoutApplied, but reports what was done
func (p *Plugin) Rewrite(ev Event) Stats {
	if !ev.HasDOM() {
		return Stats{}
	}

	site := ev.Site()
	docPath := site.DestinationPath(ev.Content().Destination())

	return p.rewriter(site).Rewrite(ev.DOM(), docPath)
}

func (p *Plugin) rewriter(s Site) *Rewriter {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.rw == nil {
		p.rw = p.newRewriter(s)
	}

	return p.rw
}

func (p *Plugin) newRewriter(s Site) *Rewriter {
	opts := []Option{
		WithRoots(DefaultRoots(s.DestinationPath)),
	}

	// User options come last so that they may override the defaults
	return New(append(opts, p.opts...)...)
}
