package archive

import (
	"fmt"
	"time"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/chaterr"
)

type fakeElement struct {
	text     string
	attrs    map[string]string
	css      map[string]string
	children map[string][]browser.Element
	clickErr error
	clicks   int
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

func (e *fakeElement) Type(string) error  { return nil }
func (e *fakeElement) Clear() error       { return nil }
func (e *fakeElement) Press(string) error { return nil }

func (e *fakeElement) Text() (string, error) { return e.text, nil }

func (e *fakeElement) Attribute(name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) CSSValue(name string) (string, error) {
	return e.css[name], nil
}

type fakeDriver struct {
	elements map[string][]browser.Element
	waitErrs map[string][]error
	evaluate func(script string, args ...any) (any, error)
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		elements: make(map[string][]browser.Element),
		waitErrs: make(map[string][]error),
	}
}

func (d *fakeDriver) Navigate(string) error { return nil }
func (d *fakeDriver) Reload() error         { return nil }

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

func (d *fakeDriver) Screenshot() ([]byte, error)             { return nil, nil }
func (d *fakeDriver) Cookies() ([]browser.Cookie, error)      { return nil, nil }
func (d *fakeDriver) SetCookies([]browser.Cookie) error       { return nil }
func (d *fakeDriver) Close() error                            { return nil }
