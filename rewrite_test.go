package cdnify

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/thatguystone/cog/check"
	"golang.org/x/net/html"
)

const testPost = `<!DOCTYPE html>
<html>
<head>
	<link rel="stylesheet" href="../../assets/style.css">
	<link rel="canonical" href="https://example.com/blog/post1/">
	<script src="../../assets/app.js"></script>
	<script>var inline = "../../assets/app.js";</script>
</head>
<body>
	<img id="src" src="../../np_images/photo.jpg" srcset="../../np_images/2x/photo.jpg 2x">
	<img id="srcset" srcset="../../np_images/photo.jpg 1x, missing.jpg 2x">
	<img id="missing" src="missing.jpg">
	<img id="external" src="https://example.com/external.png">
	<picture>
		<source id="pic" srcset="../../np_images/photo.jpg 480w, ../../np_images/2x/photo.jpg 960w">
		<img id="fallback" src="../../np_images/photo.jpg">
	</picture>
	<video><source id="video" srcset="../../np_images/photo.jpg"></video>
	<a id="empty" href="">empty</a>
	<a id="page" href="../">up</a>
	<a id="download" href="../../np_images/photo.jpg">download</a>
	<a id="hash" href="#top">top</a>
</body>
</html>`

type rewriteTest struct {
	testSite
	c   *check.C
	rw  *Rewriter
	doc *goquery.Document
}

func newRewriteTest(c *check.C, opts ...Option) *rewriteTest {
	ts := newTestSite(c)
	ts.WriteFile("out/assets/app.js", "var a;")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(testPost))
	c.Must.Nil(err)

	opts = append([]Option{
		BaseURL(testBaseURL),
		WithRoots(DefaultRoots(ts.DestinationPath)),
	}, opts...)

	return &rewriteTest{
		testSite: ts,
		c:        c,
		rw:       New(opts...),
		doc:      doc,
	}
}

func (rt *rewriteTest) rewrite() Stats {
	return rt.rw.Rewrite(rt.doc, rt.Path("out/blog/post1/index.html"))
}

func (rt *rewriteTest) attr(sel, attr string) string {
	rt.c.Helper()

	s := rt.doc.Find(sel)
	rt.c.Equal(s.Length(), 1, "selector %q", sel)

	val, _ := s.Attr(attr)
	return val
}

func TestRewriteDocument(t *testing.T) {
	c := check.New(t)

	rt := newRewriteTest(c)
	defer rt.Remove()

	rt.rewrite()

	img := testBaseURL + "/images/photo.jpg"
	img2x := testBaseURL + "/images/2x/photo.jpg"

	c.Equal(rt.attr(`link[rel="stylesheet"]`, "href"), testBaseURL+"/assets/style.css")
	c.Equal(rt.attr(`link[rel="canonical"]`, "href"), "https://example.com/blog/post1/")
	c.Equal(rt.attr("script[src]", "src"), testBaseURL+"/assets/app.js")

	c.Equal(rt.attr("#src", "src"), img)
	c.Equal(rt.attr("#srcset", "srcset"), img+" 1x, missing.jpg 2x")
	c.Equal(rt.attr("#missing", "src"), "missing.jpg")
	c.Equal(rt.attr("#external", "src"), "https://example.com/external.png")

	c.Equal(rt.attr("#pic", "srcset"), img+" 480w, "+img2x+" 960w")
	c.Equal(rt.attr("#fallback", "src"), img)
	c.Equal(rt.attr("#video", "srcset"), "../../np_images/photo.jpg")

	c.Equal(rt.attr("#empty", "href"), "")
	c.Equal(rt.attr("#page", "href"), "../")
	c.Equal(rt.attr("#download", "href"), img)
	c.Equal(rt.attr("#hash", "href"), "#top")

	c.Contains(rt.doc.Find("script:not([src])").Text(), `"../../assets/app.js"`)
}

func TestRewriteImgSrcWins(t *testing.T) {
	c := check.New(t)

	rt := newRewriteTest(c)
	defer rt.Remove()

	rt.rewrite()

	// Only falls back to srcset when src is empty
	c.Equal(rt.attr("#src", "srcset"), "../../np_images/2x/photo.jpg 2x")
}

func TestRewriteStats(t *testing.T) {
	c := check.New(t)

	rt := newRewriteTest(c)
	defer rt.Remove()

	st := rt.rewrite()

	// style.css, app.js, #src, #srcset(1), #pic(2), #fallback, #download
	c.Equal(st.Rewritten, 8)

	// canonical, #missing, #external, #page, #hash
	c.Equal(st.Skipped, 5)
}

func TestRewriteIdempotent(t *testing.T) {
	c := check.New(t)

	rt := newRewriteTest(c)
	defer rt.Remove()

	rt.rewrite()
	once, err := rt.doc.Html()
	c.Must.Nil(err)

	st := rt.rewrite()
	twice, err := rt.doc.Html()
	c.Must.Nil(err)

	c.Equal(st.Rewritten, 0)
	c.Equal(twice, once)
	c.NotContains(twice, testBaseURL+testBaseURL)
}

func TestRewriteNilDocument(t *testing.T) {
	c := check.New(t)

	rw := New()

	c.NotPanics(func() {
		st := rw.Rewrite(nil, "/out/index.html")
		c.Equal(st, Stats{})

		st = rw.RewriteNode(nil, "/out/index.html")
		c.Equal(st, Stats{})
	})
}

func TestRewriteNode(t *testing.T) {
	c := check.New(t)

	ts := newTestSite(c)
	defer ts.Remove()

	root, err := html.Parse(strings.NewReader(`<img src="../../np_images/photo.jpg">`))
	c.Must.Nil(err)

	rw := New(
		BaseURL(testBaseURL),
		WithRoots(DefaultRoots(ts.DestinationPath)))

	st := rw.RewriteNode(root, ts.Path("out/blog/post1/index.html"))
	c.Equal(st.Rewritten, 1)

	var b strings.Builder
	err = html.Render(&b, root)
	c.Must.Nil(err)
	c.Contains(b.String(), `src="`+testBaseURL+`/images/photo.jpg"`)
}

type testLogger struct {
	msgs []string
}

func (l *testLogger) Log(msg string) {
	l.msgs = append(l.msgs, msg)
}

func (l *testLogger) Error(err error, msg string) {
	l.msgs = append(l.msgs, msg+": "+err.Error())
}

func TestRewriteLogs(t *testing.T) {
	c := check.New(t)

	l := new(testLogger)
	rt := newRewriteTest(c, Log(l))
	defer rt.Remove()

	rt.rewrite()

	c.Equal(l.msgs, []string{
		"rewriting " + rt.Path("out/blog/post1/index.html"),
	})
}
