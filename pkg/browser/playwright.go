package browser

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/chatpilot/chatpilot/pkg/chaterr"
)

// LaunchOptions configures the Playwright-backed driver.
type LaunchOptions struct {
	Headless    bool
	PageTimeout time.Duration
}

// PlaywrightDriver implements Driver on a Chromium page managed by
// Playwright. It owns the full browser lifecycle; Close releases the
// page, context, browser, and the Playwright runtime.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// Launch installs the Playwright runtime if needed, starts Chromium, and
// returns a ready driver.
func Launch(opts LaunchOptions) (*PlaywrightDriver, error) {
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	ctx, err := b.NewContext()
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("create browser context: %w", err)
	}

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if opts.PageTimeout > 0 {
		page.SetDefaultTimeout(float64(opts.PageTimeout.Milliseconds()))
	}

	return &PlaywrightDriver{pw: pw, browser: b, context: ctx, page: page}, nil
}

// Navigate loads url and waits for the load event.
func (d *PlaywrightDriver) Navigate(url string) error {
	if _, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Reload reloads the current page.
func (d *PlaywrightDriver) Reload() error {
	if _, err := d.page.Reload(); err != nil {
		return fmt.Errorf("reload page: %w", err)
	}
	return nil
}

// Query resolves the first element matching selector in the document.
func (d *PlaywrightDriver) Query(selector string) (Element, error) {
	handle, err := d.page.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %q", chaterr.ErrSelectorNotFound, selector)
	}
	return &playwrightElement{handle: handle}, nil
}

// QueryAll resolves every element matching selector in the document.
// Zero matches is not an error; the caller decides what absence means.
func (d *PlaywrightDriver) QueryAll(selector string) ([]Element, error) {
	handles, err := d.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query all %q: %w", selector, err)
	}
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &playwrightElement{handle: h})
	}
	return elements, nil
}

// WaitPresent blocks until selector is attached to the DOM or the
// timeout expires.
func (d *PlaywrightDriver) WaitPresent(selector string, timeout time.Duration) (Element, error) {
	handle, err := d.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, classifyWaitError(selector, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %q", chaterr.ErrSelectorNotFound, selector)
	}
	return &playwrightElement{handle: handle}, nil
}

// WaitClickable blocks until selector is visible and enabled or the
// timeout expires.
func (d *PlaywrightDriver) WaitClickable(selector string, timeout time.Duration) (Element, error) {
	handle, err := d.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, classifyWaitError(selector, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %q", chaterr.ErrSelectorNotFound, selector)
	}
	enabled, err := handle.IsEnabled()
	if err != nil {
		return nil, fmt.Errorf("check enabled %q: %w", selector, err)
	}
	if !enabled {
		return nil, fmt.Errorf("%w: %q visible but disabled", chaterr.ErrWaitTimeout, selector)
	}
	return &playwrightElement{handle: handle}, nil
}

// Evaluate runs script in the page and returns its result.
func (d *PlaywrightDriver) Evaluate(script string, args ...any) (any, error) {
	var result any
	var err error
	switch len(args) {
	case 0:
		result, err = d.page.Evaluate(script)
	case 1:
		result, err = d.page.Evaluate(script, args[0])
	default:
		result, err = d.page.Evaluate(script, args)
	}
	if err != nil {
		return nil, fmt.Errorf("evaluate script: %w", err)
	}
	return result, nil
}

// Screenshot captures the current viewport as PNG bytes.
func (d *PlaywrightDriver) Screenshot() ([]byte, error) {
	data, err := d.page.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return data, nil
}

// Cookies returns the credential artifacts of the browser context.
func (d *PlaywrightDriver) Cookies() ([]Cookie, error) {
	raw, err := d.context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		})
	}
	return cookies, nil
}

// SetCookies installs previously persisted credential artifacts into the
// browser context.
func (d *PlaywrightDriver) SetCookies(cookies []Cookie) error {
	converted := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		cookie := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.Expires != 0 {
			cookie.Expires = playwright.Float(c.Expires)
		}
		converted = append(converted, cookie)
	}
	if err := d.context.AddCookies(converted); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

// Close releases every browser resource. Safe to call on every exit
// path; individual close failures do not stop the teardown.
func (d *PlaywrightDriver) Close() error {
	var errs []string
	if err := d.page.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := d.context.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := d.browser.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("close driver: %s", strings.Join(errs, "; "))
	}
	return nil
}

func classifyWaitError(selector string, err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return fmt.Errorf("%w: %q: %v", chaterr.ErrWaitTimeout, selector, err)
	}
	return fmt.Errorf("wait for %q: %w", selector, err)
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) Query(selector string) (Element, error) {
	handle, err := e.handle.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("scoped query %q: %w", selector, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %q", chaterr.ErrSelectorNotFound, selector)
	}
	return &playwrightElement{handle: handle}, nil
}

func (e *playwrightElement) QueryAll(selector string) ([]Element, error) {
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("scoped query all %q: %w", selector, err)
	}
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &playwrightElement{handle: h})
	}
	return elements, nil
}

func (e *playwrightElement) Click() error {
	if err := e.handle.Click(); err != nil {
		return classifyElementError("click", err)
	}
	return nil
}

func (e *playwrightElement) Type(text string) error {
	if err := e.handle.Type(text); err != nil {
		return classifyElementError("type", err)
	}
	return nil
}

// Clear empties the element via Fill. Contenteditable surfaces that do
// not support Fill report an error; the sender falls back to
// select-all plus delete.
func (e *playwrightElement) Clear() error {
	if err := e.handle.Fill(""); err != nil {
		return classifyElementError("clear", err)
	}
	return nil
}

func (e *playwrightElement) Press(key string) error {
	if err := e.handle.Press(key); err != nil {
		return classifyElementError("press", err)
	}
	return nil
}

func (e *playwrightElement) Text() (string, error) {
	text, err := e.handle.TextContent()
	if err != nil {
		return "", classifyElementError("read text", err)
	}
	return text, nil
}

func (e *playwrightElement) Attribute(name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", classifyElementError("read attribute", err)
	}
	return value, nil
}

func (e *playwrightElement) CSSValue(name string) (string, error) {
	result, err := e.handle.Evaluate("(el, prop) => getComputedStyle(el).getPropertyValue(prop)", name)
	if err != nil {
		return "", classifyElementError("read css property", err)
	}
	value, _ := result.(string)
	return value, nil
}

func classifyElementError(op string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "detached") || strings.Contains(msg, "stale") {
		return fmt.Errorf("%w: %s: %v", chaterr.ErrStaleElement, op, err)
	}
	if strings.Contains(msg, "timeout") {
		return fmt.Errorf("%w: %s: %v", chaterr.ErrWaitTimeout, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
