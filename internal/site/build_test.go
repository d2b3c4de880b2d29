package site

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/thatguystone/cdnify"
	"github.com/thatguystone/cdnify/internal/config"
	"github.com/thatguystone/cdnify/internal/testutil"
	"github.com/thatguystone/cog/check"
)

const testBaseURL = "https://cdn.x.com"

func newTestBuild(c *check.C, files map[string]string) (*Build, *testutil.TmpDir) {
	tmp := testutil.NewTmpDir(c, files)

	cfg := config.New()
	cfg.BaseURL = testBaseURL
	cfg.Output = tmp.Path("public")
	cfg.Workers = 2

	b := &Build{
		Site:   New(cfg),
		Plugin: cdnify.NewPlugin(cfg.Options()...),
	}

	return b, tmp
}

var testFiles = map[string]string{
	"public/index.html": `<!DOCTYPE html>` +
		`<html><head><link rel="stylesheet" href="assets/style.css"></head>` +
		`<body><img src="np_images/photo.jpg"></body></html>`,
	"public/blog/post1/index.html": `<!DOCTYPE html>` +
		`<html><head></head><body>` +
		`<img srcset="../../np_images/photo.jpg 1x, missing.jpg 2x">` +
		`</body></html>`,
	"public/about.htm":           `<a href="https://example.com/">out</a>`,
	"public/np_images/photo.jpg": `jpg`,
	"public/assets/style.css":    `body{}`,
	"public/assets/notes.txt":    `not a page`,
}

func TestBuildRewrites(t *testing.T) {
	c := check.New(t)

	b, tmp := newTestBuild(c, testFiles)
	defer tmp.Remove()

	st, err := b.Run(context.Background())
	c.Must.Nil(err)
	tmp.DumpTree()

	c.Equal(st.Pages, 3)
	c.Equal(st.Rewritten, 3)

	index := tmp.ReadFile("public/index.html")
	c.Contains(index, `href="`+testBaseURL+`/assets/style.css"`)
	c.Contains(index, `src="`+testBaseURL+`/images/photo.jpg"`)

	post := tmp.ReadFile("public/blog/post1/index.html")
	c.Contains(post, `srcset="`+testBaseURL+`/images/photo.jpg 1x, missing.jpg 2x"`)

	c.Contains(tmp.ReadFile("public/about.htm"), `href="https://example.com/"`)
	c.Equal(tmp.ReadFile("public/assets/notes.txt"), "not a page")
}

func TestBuildRunSucceeds(t *testing.T) {
	c := check.New(t)

	b, tmp := newTestBuild(c, testFiles)
	defer tmp.Remove()

	st, err := b.Run(context.Background())
	c.Nil(err)
	c.Equal(st, Stats{
		Pages:     3,
		Written:   3,
		Rewritten: 3,
	})

	c.True(tmp.Exists("public/np_images/photo.jpg"))
}

func TestBuildIdempotent(t *testing.T) {
	c := check.New(t)

	b, tmp := newTestBuild(c, testFiles)
	defer tmp.Remove()

	_, err := b.Run(context.Background())
	c.Must.Nil(err)

	first := tmp.ReadFile("public/index.html")

	st, err := b.Run(context.Background())
	c.Must.Nil(err)
	c.Equal(st.Pages, 3)
	c.Equal(st.Written, 0)
	c.Equal(st.Rewritten, 0)
	c.Equal(tmp.ReadFile("public/index.html"), first)
}

func TestBuildMinify(t *testing.T) {
	c := check.New(t)

	b, tmp := newTestBuild(c, map[string]string{
		"public/index.html": "<!DOCTYPE html>\n<html>\n<head>\n</head>\n<body>\n" +
			"\t<img   src=\"np_images/photo.jpg\">\n" +
			"</body>\n</html>\n",
		"public/np_images/photo.jpg": `jpg`,
	})
	defer tmp.Remove()

	b.Site.cfg.Minify = true

	_, err := b.Run(context.Background())
	c.Must.Nil(err)

	index := tmp.ReadFile("public/index.html")
	c.Contains(index, testBaseURL+"/images/photo.jpg")
	c.NotContains(index, "\n\t")
}

func TestBuildMissingOutput(t *testing.T) {
	c := check.New(t)

	b, tmp := newTestBuild(c, nil)
	defer tmp.Remove()

	_, err := b.Run(context.Background())
	c.NotNil(err)
	c.Contains(err.Error(), "does not exist")
}

func TestBuildCanceled(t *testing.T) {
	c := check.New(t)

	b, tmp := newTestBuild(c, testFiles)
	defer tmp.Remove()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Run(ctx)
	c.Equal(err, context.Canceled)
	c.NotContains(tmp.ReadFile("public/index.html"), testBaseURL)
}

func TestPages(t *testing.T) {
	c := check.New(t)

	b, tmp := newTestBuild(c, testFiles)
	defer tmp.Remove()

	pgs, err := b.Site.Pages()
	c.Must.Nil(err)

	var dsts []string
	for _, pg := range pgs {
		dsts = append(dsts, pg.Destination())
		c.False(pg.HasDOM())
	}

	c.Equal(dsts, []string{
		"about.htm",
		"blog/post1/index.html",
		"index.html",
	})
}

func TestErrorString(t *testing.T) {
	c := check.New(t)

	err := make(Error)
	c.Nil(err.getError())

	err.add("index.html", errors.New("first"))
	err.add("index.html", errors.New("second"))
	err.add("about.html", fmt.Errorf("multi\nline"))

	s := err.Error()
	c.Contains(s, "the following pages have errors:\n")
	c.Contains(s, "    \"about.html\"\n        multi\n        line\n")
	c.Contains(s, "    \"index.html\"\n        first\n        second\n")
	c.True(err.getError() != nil)
}
