package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"gurney/internal/application/port/output"
	"gurney/internal/domain/entity"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	settle   time.Duration
}

type BrowserConfig struct {
	Headless bool
	Timeout  time.Duration

	// SettleDelay is the fixed pause after every state-changing action.
	// A policy constant, not a backoff.
	SettleDelay time.Duration

	NoSandbox bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:    true,
		Timeout:     10 * time.Second,
		SettleDelay: 3 * time.Second,
		NoSandbox:   true,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		settle:   cfg.SettleDelay,
	}, nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	if err := b.page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := b.page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	b.page.WaitIdle(5 * time.Second)
	return nil
}

// Snapshot returns the page's accessibility tree in depth-first order,
// reduced to the nodes worth showing to the model.
func (b *BrowserAdapter) Snapshot(ctx context.Context) (entity.Snapshot, error) {
	tree, err := proto.AccessibilityGetFullAXTree{}.Call(b.page)
	if err != nil {
		return nil, fmt.Errorf("accessibility tree: %w", err)
	}
	return fromAXTree(tree.Nodes), nil
}

func (b *BrowserAdapter) PageText(ctx context.Context) (string, error) {
	body, err := b.page.Timeout(b.timeout).Element("body")
	if err != nil {
		return "", fmt.Errorf("body not found: %w", err)
	}

	html, err := body.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}

	return VisibleText(html, maxPageTextChars), nil
}

func (b *BrowserAdapter) Click(ctx context.Context, target entity.Target) error {
	el, err := b.resolve(clickStrategies, target)
	if err != nil {
		return err
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	b.afterAction()
	return nil
}

func (b *BrowserAdapter) Fill(ctx context.Context, target entity.Target, value string, submit bool) error {
	el, err := b.resolve(fillStrategies, target)
	if err != nil {
		return err
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(value); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}

	if submit {
		if err := el.Type(input.Enter); err != nil {
			return fmt.Errorf("failed to press Enter: %w", err)
		}
	}

	b.afterAction()
	return nil
}

// afterAction lets pending requests finish, then waits the fixed settle
// delay so asynchronous re-renders complete before the next observation.
func (b *BrowserAdapter) afterAction() {
	b.page.WaitIdle(5 * time.Second)
	time.Sleep(b.settle)
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := b.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   imgBytes,
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}
