package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/thatguystone/cdnify"
	"github.com/thatguystone/cdnify/internal"
	"github.com/thatguystone/cdnify/internal/config"
	"github.com/thatguystone/cdnify/internal/site"
	"github.com/thatguystone/cdnify/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flags struct {
	baseURL string
	exts    []string
	params  []string
	output  string
	minify  bool
	workers int
	watch   bool
	debug   bool
}

func parseFlags(args []string, out io.Writer) (*pflag.FlagSet, *flags, error) {
	var f flags

	fs := pflag.NewFlagSet("cdnify", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: cdnify [flags] [config.yml ...]\n\n")
		fmt.Fprintf(out, "Rewrites references to local assets in a generated site to CDN URLs.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.baseURL, "base-url", "", "CDN base URL")
	fs.StringSliceVar(&f.exts, "ext", nil, "extensions to rewrite (replaces configured list)")
	fs.StringArrayVarP(&f.params, "param", "p", nil, "plugin option as key=value (base_url, extensions)")
	fs.StringVarP(&f.output, "output", "o", "", "directory holding the generated site")
	fs.BoolVar(&f.minify, "minify", false, "minify rewritten pages")
	fs.IntVarP(&f.workers, "workers", "j", 0, "pages to rewrite at once")
	fs.BoolVarP(&f.watch, "watch", "w", false, "rewrite again whenever pages change")
	fs.BoolVar(&f.debug, "debug", false, "log every page")

	err := fs.Parse(args)
	return fs, &f, err
}

func run(ctx context.Context, args []string, logOut io.Writer) error {
	fs, f, err := parseFlags(args, logOut)
	if err == pflag.ErrHelp {
		return nil
	}

	if err != nil {
		return err
	}

	cfg := config.New()
	err = cfg.Load(fs.Args()...)
	if err != nil {
		return err
	}

	err = applyFlags(fs, f, cfg)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	cfg = cfg.InDir(cwd)

	logf := log.New(logOut, "", log.LstdFlags).Printf
	b := newBuild(cfg, logf)

	err = build(ctx, b, logf)
	if !f.watch {
		return err
	}

	if err != nil {
		logf("%v", err)
	}

	return watchAndBuild(ctx, b, logf)
}

func applyFlags(fs *pflag.FlagSet, f *flags, cfg *config.C) error {
	err := applyParams(f.params, cfg)
	if err != nil {
		return err
	}

	if fs.Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}

	if fs.Changed("ext") {
		cfg.Extensions = f.exts
	}

	if fs.Changed("output") {
		cfg.Output = f.output
	}

	if fs.Changed("minify") {
		cfg.Minify = f.minify
	}

	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}

	if fs.Changed("debug") {
		cfg.Debug = f.debug
	}

	return nil
}

// applyParams sets plugin options given as "key=value", the way a site
// generator passes them to its plugins
func applyParams(kvs []string, cfg *config.C) error {
	if len(kvs) == 0 {
		return nil
	}

	vs := url.Values{}
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return errors.Errorf("invalid param %q: expected key=value", kv)
		}

		vs.Set(k, v)
	}

	ps := cfg.Params()
	err := ps.Parse(vs)
	if err != nil {
		return err
	}

	cfg.SetParams(ps)
	return nil
}

func newBuild(cfg *config.C, logf internal.LogFunc) *site.Build {
	opts := cfg.Options()
	if cfg.Debug {
		opts = append(opts, cdnify.Log(internal.NewLogger("cdn", logf)))
	}

	return &site.Build{
		Site:   site.New(cfg),
		Plugin: cdnify.NewPlugin(opts...),
		Log:    internal.NewLogger("build", logf),
	}
}

func build(ctx context.Context, b *site.Build, logf internal.LogFunc) error {
	start := time.Now()

	stats, err := b.Run(ctx)
	if err != nil {
		return err
	}

	logf("Site rewritten!")
	logf("    Pages:      %d", stats.Pages)
	logf("    Written:    %d", stats.Written)
	logf("    References: %d", stats.Rewritten)
	logf("    Took:       %v", time.Since(start).Round(time.Millisecond))

	return nil
}

func watchAndBuild(ctx context.Context, b *site.Build, logf internal.LogFunc) error {
	w, err := watch.New(b.Site.DestinationPath("."))
	if err != nil {
		return err
	}

	defer w.Stop()

	changed := make(chan struct{}, 1)
	w.Notify(watch.WatcherFunc(func(evs watch.Events) {
		if !evs.HasExt(".html", ".htm") {
			return
		}

		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	logf("Watching for changes...")

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-changed:
			logf("Change detected, rewriting...")

			// Pages that are already rewritten aren't written again, so the
			// writes made here don't cause another rebuild.
			err := build(ctx, b, logf)
			if err != nil {
				logf("%v", err)
			}
		}
	}
}
