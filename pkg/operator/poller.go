package operator

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/chaterr"
	"github.com/chatpilot/chatpilot/pkg/platform"
)

// Poller scans the conversation-list UI for unread indicators and feeds
// the scheduler. Unread-ness is a snapshot at poll time; a conversation
// that turns unread between polls is caught on the next cycle.
type Poller struct {
	driver    browser.Driver
	cfg       *platform.Config
	scheduler *Scheduler
	log       *zap.Logger
}

// NewPoller wires a poller to the shared driver, config, and scheduler.
func NewPoller(driver browser.Driver, cfg *platform.Config, scheduler *Scheduler, log *zap.Logger) *Poller {
	return &Poller{driver: driver, cfg: cfg, scheduler: scheduler, log: log}
}

// Poll inspects every conversation-list entry and returns the ids
// judged unread, enqueueing each into the scheduler. A lookup failure
// on one entry never aborts the rest of the poll.
func (p *Poller) Poll() ([]string, error) {
	entries, err := p.driver.QueryAll(p.cfg.Selectors.ConversationList)
	if err != nil {
		return nil, fmt.Errorf("poll conversation list: %w", err)
	}
	if len(entries) == 0 {
		p.log.Warn("no conversation elements found")
		return nil, nil
	}

	var unread []string
	for idx, entry := range entries {
		hasUnread, err := p.hasUnreadIndicator(entry)
		if err != nil {
			p.log.Debug("unread check failed, treating entry as read",
				zap.Int("entry", idx), zap.Error(err))
			continue
		}
		if !hasUnread {
			continue
		}

		id := p.conversationID(entry, idx)
		unread = append(unread, id)
		p.scheduler.Enqueue(id)
	}

	if len(unread) > 0 {
		p.log.Info("unread conversations found", zap.Int("count", len(unread)))
	}
	return unread, nil
}

func (p *Poller) hasUnreadIndicator(entry browser.Element) (bool, error) {
	_, err := entry.Query(p.cfg.Selectors.UnreadIndicator)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, chaterr.ErrSelectorNotFound) {
		return false, nil
	}
	return false, err
}

// conversationID extracts a stable identifier when the entry carries a
// data-id attribute, falling back to the positional id the live path
// accepts as best-effort.
func (p *Poller) conversationID(entry browser.Element, idx int) string {
	if id, err := entry.Attribute("data-id"); err == nil && id != "" {
		return id
	}
	return fmt.Sprintf("conv_%d", idx)
}
