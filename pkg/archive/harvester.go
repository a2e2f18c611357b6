// Package archive implements the archival path: infinite-scroll history
// harvesting, profile and media extraction, and export of each
// conversation to a markdown transcript plus profile metadata.
package archive

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/chaterr"
	"github.com/chatpilot/chatpilot/pkg/operator"
	"github.com/chatpilot/chatpilot/pkg/platform"
)

const (
	defaultMaxScrolls = 100
	// stableProbeCount is how many consecutive unchanged scroll probes
	// mean history is exhausted.
	stableProbeCount = 3
)

// Harvester loads a conversation's full scrollable history and extracts
// its messages.
type Harvester struct {
	driver browser.Driver
	cfg    *platform.Config
	log    *zap.Logger

	// MaxScrolls caps the scroll loop so pathological pages terminate.
	MaxScrolls int
	// ScrollPause is the fixed wait after each scroll command for lazy
	// content to load.
	ScrollPause time.Duration
	// WaitTimeout bounds the container lookups.
	WaitTimeout time.Duration
}

// NewHarvester wires a harvester to the shared driver and config. The
// config must carry archive selectors.
func NewHarvester(driver browser.Driver, cfg *platform.Config, log *zap.Logger) *Harvester {
	return &Harvester{
		driver:      driver,
		cfg:         cfg,
		log:         log,
		MaxScrolls:  defaultMaxScrolls,
		ScrollPause: 1500 * time.Millisecond,
		WaitTimeout: 10 * time.Second,
	}
}

// LoadFullHistory scrolls the designated container to its origin until
// the scroll-position probe stabilizes or the iteration cap is hit.
// Scroll failure is soft: extraction proceeds with partial history.
func (h *Harvester) LoadFullHistory() {
	sel := h.cfg.ArchiveSelectors.ScrollContainer
	if _, err := h.driver.WaitPresent(sel, h.WaitTimeout); err != nil {
		h.log.Warn("scroll container not found, using partial history", zap.Error(err))
		return
	}

	previous := -1
	stable := 0
	for i := 0; i < h.MaxScrolls; i++ {
		if err := h.scrollToTop(sel); err != nil {
			h.log.Warn("scroll command failed, using partial history", zap.Error(err))
			return
		}

		time.Sleep(h.ScrollPause)

		position, err := h.probeScrollPosition(sel)
		if err != nil {
			h.log.Warn("scroll probe failed, using partial history", zap.Error(err))
			return
		}

		if position == previous {
			stable++
			if stable >= stableProbeCount {
				h.log.Info("scroll converged", zap.Int("iterations", i+1))
				return
			}
		} else {
			stable = 0
		}
		previous = position
	}

	h.log.Info("scroll iteration cap reached", zap.Int("cap", h.MaxScrolls))
}

func (h *Harvester) scrollToTop(selector string) error {
	_, err := h.driver.Evaluate(
		"(sel) => { const el = document.querySelector(sel); if (el) el.scrollTop = 0; }",
		selector)
	return err
}

func (h *Harvester) probeScrollPosition(selector string) (int, error) {
	result, err := h.driver.Evaluate(
		"(sel) => { const el = document.querySelector(sel); return el ? el.scrollTop : 0; }",
		selector)
	if err != nil {
		return 0, err
	}
	return asInt(result), nil
}

// ExtractMessages collects every outgoing and, when configured,
// incoming message element in DOM order, skipping empty text. Per
// message, a scoped timestamp lookup runs when the selector is
// configured; absence is recorded as empty, never an error.
func (h *Harvester) ExtractMessages() ([]operator.Message, error) {
	if _, err := h.driver.WaitPresent(h.cfg.ArchiveSelectors.MessageContainer, h.WaitTimeout); err != nil {
		return nil, fmt.Errorf("message container not found: %w", err)
	}

	messages := h.collect(h.cfg.Selectors.OutgoingBubble, operator.RoleSelf)
	if h.cfg.Selectors.IncomingBubble != "" {
		messages = append(messages, h.collect(h.cfg.Selectors.IncomingBubble, operator.RolePeer)...)
	}

	h.log.Info("messages extracted", zap.Int("count", len(messages)))
	return messages, nil
}

func (h *Harvester) collect(selector string, role operator.Role) []operator.Message {
	elements, err := h.driver.QueryAll(selector)
	if err != nil {
		h.log.Warn("bubble lookup failed", zap.String("selector", selector), zap.Error(err))
		return nil
	}

	var messages []operator.Message
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		msg := operator.Message{Role: role, Text: text}
		if tsSel := h.cfg.ArchiveSelectors.MessageTimestamp; tsSel != "" {
			msg.Timestamp = h.scopedText(el, tsSel)
		}
		messages = append(messages, msg)
	}
	return messages
}

func (h *Harvester) scopedText(el browser.Element, selector string) string {
	child, err := el.Query(selector)
	if err != nil {
		if !errors.Is(err, chaterr.ErrSelectorNotFound) {
			h.log.Debug("timestamp lookup failed", zap.Error(err))
		}
		return ""
	}
	text, err := child.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// asInt normalizes the numeric types a script evaluation can return.
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
