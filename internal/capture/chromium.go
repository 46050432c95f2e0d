package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "socsite/internal/log"
)

// Options configures the headless browser used for preview captures.
type Options struct {
	// Width and Height are the viewport in CSS pixels. The default matches
	// the 1200x630 size social cards expect.
	Width  int
	Height int

	// Timeout bounds a single page capture.
	Timeout time.Duration

	// Settle is how long to wait after the page body is visible so web fonts
	// and lazy images can land.
	Settle time.Duration
}

// Shot is one page to capture.
type Shot struct {
	URL        string
	OutputPath string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 630
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Settle <= 0 {
		o.Settle = 500 * time.Millisecond
	}
	return o
}

func (s Shot) validate() error {
	if s.URL == "" {
		return errors.New("capture: url is required")
	}
	if s.OutputPath == "" {
		return errors.New("capture: output path is required")
	}
	return nil
}

// Chromium captures pages with a headless Chrome/Chromium via chromedp.
// All shots of one Capture call share a browser.
type Chromium struct {
	opts Options
}

func NewChromium(opts Options) *Chromium {
	return &Chromium{opts: opts.withDefaults()}
}

// Capture writes a viewport-sized PNG for every shot. Shots are validated
// up front so a bad entry does not launch a browser.
func (c *Chromium) Capture(ctx context.Context, shots []Shot) error {
	for i, s := range shots {
		if err := s.validate(); err != nil {
			return fmt.Errorf("shot %d: %w", i, err)
		}
	}
	if len(shots) == 0 {
		return nil
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.WindowSize(c.opts.Width, c.opts.Height),
			chromedp.Flag("hide-scrollbars", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	for _, s := range shots {
		if err := c.captureOne(browserCtx, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chromium) captureOne(browserCtx context.Context, s Shot) error {
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.opts.Timeout)
	defer cancelTimeout()

	appLog.Debug("capturing page", "url", s.URL, "out", s.OutputPath)

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(c.opts.Width), int64(c.opts.Height)),
		chromedp.Navigate(s.URL),
		chromedp.WaitVisible("main", chromedp.ByQuery),
		chromedp.Sleep(c.opts.Settle),
		chromedp.CaptureScreenshot(&buf),
	}
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return fmt.Errorf("capture %s: %w", s.URL, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.OutputPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.OutputPath, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.OutputPath, err)
	}
	appLog.Info("captured page", "url", s.URL, "out", s.OutputPath, "bytes", len(buf))
	return nil
}
