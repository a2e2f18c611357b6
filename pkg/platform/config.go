// Package platform defines the per-platform selector configuration and
// its JSON persistence. The configuration is produced upstream by the
// selector-discovery step; this package only loads, validates, and saves
// it. Schema violations are rejected at load time, never defaulted.
package platform

import (
	"fmt"
	"net/url"
	"time"
)

// Selectors holds the locators required for live operation.
type Selectors struct {
	InputField       string `json:"input_field"`
	SendButton       string `json:"send_button"`
	OutgoingBubble   string `json:"outgoing_bubble"`
	IncomingBubble   string `json:"incoming_bubble,omitempty"`
	ConversationList string `json:"conversation_list"`
	UnreadIndicator  string `json:"unread_indicator"`
}

// ArchiveSelectors holds the additional locators used only by the
// archival path. Optional fields that are absent mean the capability is
// not available on the platform, not that the config is invalid.
type ArchiveSelectors struct {
	ConversationItem string `json:"conversation_item"`
	ProfileName      string `json:"profile_name"`
	ProfilePicture   string `json:"profile_picture"`
	ProfileBio       string `json:"profile_bio,omitempty"`
	ProfileAge       string `json:"profile_age,omitempty"`
	ProfileDistance  string `json:"profile_distance,omitempty"`
	MessageTimestamp string `json:"message_timestamp,omitempty"`
	MessageContainer string `json:"message_container"`
	ScrollContainer  string `json:"scroll_container"`
	GalleryPictures  string `json:"gallery_pictures,omitempty"`
}

// WaitTimeouts holds bounded wait durations in seconds.
type WaitTimeouts struct {
	PageLoad       int `json:"page_load"`
	ElementVisible int `json:"element_visible"`
	MessageSend    int `json:"message_send"`
}

// DefaultWaitTimeouts returns the timeouts applied when a stored config
// omits the section entirely.
func DefaultWaitTimeouts() WaitTimeouts {
	return WaitTimeouts{PageLoad: 30, ElementVisible: 10, MessageSend: 5}
}

// PageLoadDuration returns the page-load timeout as a duration.
func (w WaitTimeouts) PageLoadDuration() time.Duration {
	return time.Duration(w.PageLoad) * time.Second
}

// ElementVisibleDuration returns the element-visible timeout as a duration.
func (w WaitTimeouts) ElementVisibleDuration() time.Duration {
	return time.Duration(w.ElementVisible) * time.Second
}

// MessageSendDuration returns the post-send settle time as a duration.
func (w WaitTimeouts) MessageSendDuration() time.Duration {
	return time.Duration(w.MessageSend) * time.Second
}

// Config is the immutable selector configuration for one platform.
type Config struct {
	PlatformName     string            `json:"platform_name"`
	URL              string            `json:"url"`
	LastUpdated      time.Time         `json:"last_updated"`
	Selectors        Selectors         `json:"selectors"`
	ArchiveSelectors *ArchiveSelectors `json:"archive_selectors,omitempty"`
	WaitTimeouts     WaitTimeouts      `json:"wait_timeouts"`
}

// Validate checks the config against the schema: required selectors must
// be non-empty, the URL must parse, and timeouts must sit inside their
// documented bounds.
func (c *Config) Validate() error {
	if c.PlatformName == "" {
		return fmt.Errorf("platform_name is required")
	}

	parsed, err := url.Parse(c.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("url %q is not a valid absolute URL", c.URL)
	}

	required := map[string]string{
		"selectors.input_field":       c.Selectors.InputField,
		"selectors.send_button":       c.Selectors.SendButton,
		"selectors.outgoing_bubble":   c.Selectors.OutgoingBubble,
		"selectors.conversation_list": c.Selectors.ConversationList,
		"selectors.unread_indicator":  c.Selectors.UnreadIndicator,
	}
	if a := c.ArchiveSelectors; a != nil {
		required["archive_selectors.conversation_item"] = a.ConversationItem
		required["archive_selectors.profile_name"] = a.ProfileName
		required["archive_selectors.profile_picture"] = a.ProfilePicture
		required["archive_selectors.message_container"] = a.MessageContainer
		required["archive_selectors.scroll_container"] = a.ScrollContainer
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%s must be a non-empty selector", field)
		}
	}

	if err := validateTimeout("wait_timeouts.page_load", c.WaitTimeouts.PageLoad, 5, 120); err != nil {
		return err
	}
	if err := validateTimeout("wait_timeouts.element_visible", c.WaitTimeouts.ElementVisible, 2, 60); err != nil {
		return err
	}
	if err := validateTimeout("wait_timeouts.message_send", c.WaitTimeouts.MessageSend, 1, 30); err != nil {
		return err
	}

	return nil
}

func validateTimeout(field string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d seconds, got %d", field, min, max, value)
	}
	return nil
}
