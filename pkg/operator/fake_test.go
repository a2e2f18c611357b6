package operator

import (
	"fmt"
	"time"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/chaterr"
)

// fakeElement is a scriptable browser.Element for tests.
type fakeElement struct {
	text     string
	attrs    map[string]string
	css      map[string]string
	children map[string][]browser.Element

	clickErr error
	typeErr  error
	clearErr error
	pressErr error

	clicks  int
	typed   []string
	cleared int
	pressed []string
}

func (e *fakeElement) Query(selector string) (browser.Element, error) {
	matches := e.children[selector]
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", chaterr.ErrSelectorNotFound, selector)
	}
	return matches[0], nil
}

func (e *fakeElement) QueryAll(selector string) ([]browser.Element, error) {
	return e.children[selector], nil
}

func (e *fakeElement) Click() error {
	e.clicks++
	return e.clickErr
}

func (e *fakeElement) Type(text string) error {
	if e.typeErr != nil {
		return e.typeErr
	}
	e.typed = append(e.typed, text)
	return nil
}

func (e *fakeElement) Clear() error {
	if e.clearErr != nil {
		return e.clearErr
	}
	e.cleared++
	return nil
}

func (e *fakeElement) Press(key string) error {
	if e.pressErr != nil {
		return e.pressErr
	}
	e.pressed = append(e.pressed, key)
	return nil
}

func (e *fakeElement) Text() (string, error) { return e.text, nil }

func (e *fakeElement) Attribute(name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) CSSValue(name string) (string, error) {
	return e.css[name], nil
}

// fakeDriver is a scriptable browser.Driver. Selectors resolve through
// the elements map; waitErrs overrides bounded waits per selector and
// is consumed one error per call so retry sequences can be scripted.
type fakeDriver struct {
	elements map[string][]browser.Element
	waitErrs map[string][]error

	navigated []string
	reloads   int
	cookies   []browser.Cookie
	setErr    error
	evaluate  func(script string, args ...any) (any, error)
	closed    bool
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		elements: make(map[string][]browser.Element),
		waitErrs: make(map[string][]error),
	}
}

func (d *fakeDriver) failNextWait(selector string, err error) {
	d.waitErrs[selector] = append(d.waitErrs[selector], err)
}

func (d *fakeDriver) Navigate(url string) error {
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *fakeDriver) Reload() error {
	d.reloads++
	return nil
}

func (d *fakeDriver) Query(selector string) (browser.Element, error) {
	matches := d.elements[selector]
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", chaterr.ErrSelectorNotFound, selector)
	}
	return matches[0], nil
}

func (d *fakeDriver) QueryAll(selector string) ([]browser.Element, error) {
	return d.elements[selector], nil
}

func (d *fakeDriver) wait(selector string) (browser.Element, error) {
	if errs := d.waitErrs[selector]; len(errs) > 0 {
		err := errs[0]
		d.waitErrs[selector] = errs[1:]
		if err != nil {
			return nil, err
		}
	}
	matches := d.elements[selector]
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", chaterr.ErrWaitTimeout, selector)
	}
	return matches[0], nil
}

func (d *fakeDriver) WaitPresent(selector string, _ time.Duration) (browser.Element, error) {
	return d.wait(selector)
}

func (d *fakeDriver) WaitClickable(selector string, _ time.Duration) (browser.Element, error) {
	return d.wait(selector)
}

func (d *fakeDriver) Evaluate(script string, args ...any) (any, error) {
	if d.evaluate != nil {
		return d.evaluate(script, args...)
	}
	return nil, nil
}

func (d *fakeDriver) Screenshot() ([]byte, error) { return []byte("png"), nil }

func (d *fakeDriver) Cookies() ([]browser.Cookie, error) { return d.cookies, nil }

func (d *fakeDriver) SetCookies(cookies []browser.Cookie) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.cookies = append(d.cookies, cookies...)
	return nil
}

func (d *fakeDriver) Close() error {
	d.closed = true
	return nil
}
