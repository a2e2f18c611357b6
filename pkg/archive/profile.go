package archive

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/platform"
)

// Profile is the counterparty's profile as extracted once per harvested
// conversation. Name is required; everything else is best-effort.
type Profile struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio,omitempty"`
	Age      string   `json:"age,omitempty"`
	Distance string   `json:"distance,omitempty"`
	Pictures []string `json:"pictures,omitempty"`
}

// ProfileExtractor pulls profile fields from the currently open
// conversation.
type ProfileExtractor struct {
	driver browser.Driver
	sel    *platform.ArchiveSelectors
	log    *zap.Logger

	WaitTimeout time.Duration
}

// NewProfileExtractor wires an extractor to the shared driver.
func NewProfileExtractor(driver browser.Driver, sel *platform.ArchiveSelectors, log *zap.Logger) *ProfileExtractor {
	return &ProfileExtractor{driver: driver, sel: sel, log: log, WaitTimeout: 10 * time.Second}
}

// Extract reads the profile from the current page. A missing name is an
// error, fatal for this conversation's archive; missing optional fields
// are recorded as absent.
func (p *ProfileExtractor) Extract() (*Profile, error) {
	name := p.extractText(p.sel.ProfileName)
	if name == "" {
		return nil, fmt.Errorf("profile name not found via %q", p.sel.ProfileName)
	}

	profile := &Profile{Name: name}
	if p.sel.ProfileBio != "" {
		profile.Bio = p.extractText(p.sel.ProfileBio)
	}
	if p.sel.ProfileAge != "" {
		profile.Age = p.extractText(p.sel.ProfileAge)
	}
	if p.sel.ProfileDistance != "" {
		profile.Distance = p.extractText(p.sel.ProfileDistance)
	}

	p.log.Info("profile extracted", zap.String("name", name))
	return profile, nil
}

// extractText waits for the element and reads its text, falling back to
// the value attribute when the text content is empty.
func (p *ProfileExtractor) extractText(selector string) string {
	el, err := p.driver.WaitPresent(selector, p.WaitTimeout)
	if err != nil {
		p.log.Debug("profile field not found", zap.String("selector", selector), zap.Error(err))
		return ""
	}

	text, err := el.Text()
	if err != nil {
		return ""
	}
	text = strings.TrimSpace(text)
	if text != "" {
		return text
	}

	value, err := el.Attribute("value")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
