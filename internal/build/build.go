// Package build renders the whole site to a directory of static files that
// can be served from S3/CloudFront or any plain file host.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"socsite/internal/capture"
	"socsite/internal/ics"
	appLog "socsite/internal/log"
	"socsite/internal/site"
)

// Capturer takes screenshots of built pages for og:image previews.
type Capturer interface {
	Capture(ctx context.Context, shots []capture.Shot) error
}

type Options struct {
	OutputDir string
	// PublicDir is copied verbatim into OutputDir. Empty skips the copy.
	PublicDir string
}

// Result lists what a build wrote, as slash-separated paths relative to
// the output directory.
type Result struct {
	Files    []string
	Captured int
}

type Builder struct {
	renderer *site.Renderer
	opts     Options
	capturer Capturer
}

// New returns a Builder. capturer may be nil to skip og:image captures.
func New(renderer *site.Renderer, opts Options, capturer Capturer) *Builder {
	return &Builder{renderer: renderer, opts: opts, capturer: capturer}
}

// page is one rendered document and where it lives in the output tree.
type page struct {
	file string
	page *site.Page
}

// pageFile maps a route to its file: "/" is index.html and "/about" is
// about/index.html so directory-index hosts resolve clean URLs.
func pageFile(route string) string {
	if route == "/" {
		return "index.html"
	}
	return path.Join(route[1:], "index.html")
}

// Build writes every page, the feeds and the assets. The static output
// never shows the loading state, so in.Ready is forced on; callers should
// refresh feeds before building.
func (b *Builder) Build(ctx context.Context, in site.Input) (*Result, error) {
	out := b.opts.OutputDir
	if out == "" {
		return nil, errors.New("build: output dir is empty")
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, err
	}

	in.Ready = true
	in.Query = nil
	res := &Result{}

	if b.opts.PublicDir != "" {
		files, err := copyTree(os.DirFS(b.opts.PublicDir), out, "")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("copy public dir: %w", err)
		}
		if errors.Is(err, fs.ErrNotExist) {
			appLog.Warn("public dir missing, skipping copy", "dir", b.opts.PublicDir)
		}
		res.Files = append(res.Files, files...)
	}

	files, err := copyTree(site.Assets(), out, "assets")
	if err != nil {
		return nil, fmt.Errorf("copy embedded assets: %w", err)
	}
	res.Files = append(res.Files, files...)

	pages := []page{
		{pageFile("/"), b.renderer.HomePage(in)},
		{pageFile("/about"), b.renderer.AboutPage(in)},
		{pageFile("/events"), b.renderer.EventsPage(in)},
		{pageFile("/team"), b.renderer.TeamPage(in)},
		{pageFile("/sponsors"), b.renderer.SponsorsPage(in)},
		{pageFile("/contact"), b.renderer.ContactPage(in, site.ContactForm{}, nil, "")},
		{"404.html", b.renderer.NotFoundPage(in)},
	}
	for _, p := range pages {
		var buf bytes.Buffer
		if err := b.renderer.Render(&buf, p.page); err != nil {
			return nil, fmt.Errorf("render %s: %w", p.page.Name, err)
		}
		if err := writeFile(out, p.file, buf.Bytes()); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, p.file)
	}

	sitemap, err := site.Sitemap(in.Site.BaseURL, in.Now)
	if err != nil {
		return nil, fmt.Errorf("render sitemap: %w", err)
	}
	extras := map[string][]byte{
		"events.ics":  []byte(ics.Export(in.Site, in.Site.Events, in.Now.UTC())),
		"robots.txt":  []byte(site.Robots(in.Site.BaseURL)),
		"sitemap.xml": sitemap,
	}
	for _, name := range []string{"events.ics", "robots.txt", "sitemap.xml"} {
		if err := writeFile(out, name, extras[name]); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, name)
	}

	if b.capturer != nil {
		shots, err := b.captureAll(ctx, pages)
		if err != nil {
			return nil, err
		}
		res.Captured = shots
		for _, p := range pages {
			if p.page.NoIndex {
				continue
			}
			res.Files = append(res.Files, ogFile(p.page.Name))
		}
	}

	slices.Sort(res.Files)
	res.Files = slices.Compact(res.Files)
	appLog.Info("site built", "out", out, "files", len(res.Files), "captured", res.Captured)
	return res, nil
}

func ogFile(name string) string {
	return path.Join("og", name+".png")
}

// captureAll serves the freshly written tree on a loopback port and
// screenshots every indexable page into og/<name>.png.
func (b *Builder) captureAll(ctx context.Context, pages []page) (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("capture listener: %w", err)
	}
	srv := &http.Server{
		Handler:           http.FileServer(http.Dir(b.opts.OutputDir)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("capture server failed", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	base := "http://" + ln.Addr().String()
	var shots []capture.Shot
	for _, p := range pages {
		if p.page.NoIndex {
			continue
		}
		shots = append(shots, capture.Shot{
			URL:        base + p.page.Path,
			OutputPath: filepath.Join(b.opts.OutputDir, filepath.FromSlash(ogFile(p.page.Name))),
		})
	}
	if err := b.capturer.Capture(ctx, shots); err != nil {
		return 0, fmt.Errorf("capture og images: %w", err)
	}
	return len(shots), nil
}

func writeFile(root, rel string, data []byte) error {
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// copyTree copies every regular file of src into root/prefix, overwriting
// what is there.
func copyTree(src fs.FS, root, prefix string) ([]string, error) {
	var files []string
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := path.Join(prefix, p)

		in, err := src.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()

		dst := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		outFile, err := os.Create(dst)
		if err != nil {
			return err
		}
		if _, err := io.Copy(outFile, in); err != nil {
			outFile.Close()
			return fmt.Errorf("copy %s: %w", rel, err)
		}
		if err := outFile.Close(); err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	return files, err
}
