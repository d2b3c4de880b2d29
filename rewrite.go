package cdnify

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type ruleKind int

const (
	singleAttr ruleKind = iota
	srcSetAttr
)

// A rule says which attribute of the elements matching sel holds a
// reference. If attr is empty on an element, fallback is tried with the
// srcset strategy.
type rule struct {
	sel      string
	kind     ruleKind
	attr     string
	fallback string
}

var rules = []rule{
	{sel: "img", kind: singleAttr, attr: "src", fallback: "srcset"},
	{sel: "picture source", kind: srcSetAttr, attr: "srcset"},
	{sel: "script", kind: singleAttr, attr: "src"},
	{sel: "link", kind: singleAttr, attr: "href"},
	{sel: "a", kind: singleAttr, attr: "href"},
}

// Stats describes what a single Rewrite did
type Stats struct {
	Rewritten int // References that now point at the CDN
	Skipped   int // Non-empty references that were left alone
}

// A Rewriter rewrites local asset references in documents to CDN URLs
type Rewriter struct {
	rsv *Resolver
	log Logger
}

// New creates a new Rewriter
func New(opts ...Option) *Rewriter {
	cfg := newSettings(opts)
	return &Rewriter{
		rsv: newResolver(cfg),
		log: cfg.log,
	}
}

// Rewrite changes, in place, every reference in doc that resolves to a local
// file. docPath is the absolute path doc is written to. A nil doc is ignored.
func (rw *Rewriter) Rewrite(doc *goquery.Document, docPath string) (st Stats) {
	if doc == nil {
		return
	}

	if rw.log != nil {
		rw.log.Log("rewriting " + docPath)
	}

	for _, r := range rules {
		doc.Find(r.sel).Each(func(_ int, sel *goquery.Selection) {
			rw.apply(r, sel, docPath, &st)
		})
	}

	return
}

// RewriteNode is Rewrite for a raw document tree
func (rw *Rewriter) RewriteNode(root *html.Node, docPath string) Stats {
	if root == nil {
		return Stats{}
	}

	return rw.Rewrite(goquery.NewDocumentFromNode(root), docPath)
}

func (rw *Rewriter) apply(r rule, sel *goquery.Selection, docPath string, st *Stats) {
	attr, kind := r.attr, r.kind

	val, _ := sel.Attr(attr)
	if val == "" && r.fallback != "" {
		attr, kind = r.fallback, srcSetAttr
		val, _ = sel.Attr(attr)
	}

	if val == "" {
		return
	}

	resolve := func(ref string) (string, bool) {
		return rw.rsv.Resolve(ref, docPath)
	}

	switch kind {
	case singleAttr:
		u, ok := resolve(val)
		if !ok {
			st.Skipped++
			return
		}

		sel.SetAttr(attr, u)
		st.Rewritten++

	case srcSetAttr:
		out, n := rewriteSrcSet(val, resolve)
		if n == 0 {
			st.Skipped++
			return
		}

		sel.SetAttr(attr, out)
		st.Rewritten += n
	}
}
