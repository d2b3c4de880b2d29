package cdnify

import "strings"

// DefaultBaseURL is the CDN used when no BaseURL is given
const DefaultBaseURL = "https://cdn.hotocameras.com"

// DefaultExtensions are the file extensions that are rewritten by default
var DefaultExtensions = []string{
	"jpg", "jpeg", "png", "webp", "gif",
	"js", "css",
	"woff", "ttf", "otf",
	"svg",
}

// An Option is passed to New() and NewPlugin() to change default options
type Option interface {
	applyTo(cfg *settings)
}

type option func(cfg *settings)

func (o option) applyTo(cfg *settings) { o(cfg) }

type settings struct {
	baseURL string
	exts    map[string]struct{}
	roots   Roots
	log     Logger
}

func newSettings(opts []Option) settings {
	cfg := settings{
		baseURL: DefaultBaseURL,
	}

	Extensions(DefaultExtensions...).applyTo(&cfg)

	for _, opt := range opts {
		opt.applyTo(&cfg)
	}

	return cfg
}

// BaseURL sets the CDN URL that rewritten references are prefixed with. A
// trailing "/" is dropped so that it joins cleanly with the root prefix:
// "https://cdn.x.com/" and "https://cdn.x.com" produce the same URLs.
func BaseURL(u string) Option {
	return option(func(cfg *settings) {
		cfg.baseURL = u
	})
}

// Extensions replaces the set of file extensions that may be rewritten.
// Extensions are matched case-insensitively and may be given with or without
// a leading ".".
func Extensions(exts ...string) Option {
	return option(func(cfg *settings) {
		cfg.exts = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if ext != "" {
				cfg.exts[ext] = struct{}{}
			}
		}
	})
}

// WithRoots sets the output root table
func WithRoots(rs Roots) Option {
	return option(func(cfg *settings) {
		cfg.roots = append(Roots(nil), rs...)
	})
}

// Log sets where progress is reported
func Log(l Logger) Option {
	return option(func(cfg *settings) {
		cfg.log = l
	})
}
