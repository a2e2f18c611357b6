// Package browser wraps the underlying browser-automation capability
// behind small Driver and Element interfaces. Element absence is an
// explicit sentinel (chaterr.ErrSelectorNotFound) and expired bounded
// waits are chaterr.ErrWaitTimeout, so callers classify with errors.Is
// instead of parsing automation-library errors.
package browser

import "time"

// Element is one resolved element in the current document. Query and
// QueryAll are scoped to the element, which the engine relies on for
// per-entry unread checks and per-message timestamp extraction.
type Element interface {
	Query(selector string) (Element, error)
	QueryAll(selector string) ([]Element, error)
	Click() error
	Type(text string) error
	Clear() error
	Press(key string) error
	Text() (string, error)
	Attribute(name string) (string, error)
	CSSValue(name string) (string, error)
}

// Cookie is one credential artifact captured from the browser context.
// It is the unit persisted by the session store.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"http_only"`
	Secure   bool    `json:"secure"`
}

// Driver is the single browser-automation handle. One logical thread of
// control owns a Driver; no two operations run against it concurrently.
type Driver interface {
	Navigate(url string) error
	Reload() error
	Query(selector string) (Element, error)
	QueryAll(selector string) ([]Element, error)
	WaitPresent(selector string, timeout time.Duration) (Element, error)
	WaitClickable(selector string, timeout time.Duration) (Element, error)
	Evaluate(script string, args ...any) (any, error)
	Screenshot() ([]byte, error)
	Cookies() ([]Cookie, error)
	SetCookies(cookies []Cookie) error
	Close() error
}
