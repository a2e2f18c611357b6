package operator

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/platform"
)

// maxHistoryMessages bounds the snapshot handed to the responder so
// long conversations do not overflow its context.
const maxHistoryMessages = 50

// Reader builds conversation snapshots from the currently open chat.
type Reader struct {
	driver browser.Driver
	cfg    *platform.Config
	log    *zap.Logger
}

// NewReader wires a reader to the shared driver and config.
func NewReader(driver browser.Driver, cfg *platform.Config, log *zap.Logger) *Reader {
	return &Reader{driver: driver, cfg: cfg, log: log}
}

// ReadConversation reads the active chat into a fresh immutable
// snapshot. Messages are collected in DOM order; elements with empty
// text are skipped. A failed read yields an empty snapshot, not an
// error, so one bad cycle never stops the loop.
func (r *Reader) ReadConversation(id string) *Conversation {
	messages := r.collectBubbles(r.cfg.Selectors.OutgoingBubble, RoleSelf)

	if r.cfg.Selectors.IncomingBubble != "" {
		messages = append(messages, r.collectBubbles(r.cfg.Selectors.IncomingBubble, RolePeer)...)
	}

	if len(messages) > maxHistoryMessages {
		r.log.Warn("conversation truncated for responder",
			zap.Int("total", len(messages)), zap.Int("kept", maxHistoryMessages))
		messages = messages[len(messages)-maxHistoryMessages:]
	}

	r.log.Info("conversation read", zap.String("conversation", id), zap.Int("messages", len(messages)))

	return &Conversation{
		ID:           id,
		Platform:     r.cfg.PlatformName,
		Messages:     messages,
		LastActivity: time.Now(),
	}
}

func (r *Reader) collectBubbles(selector string, role Role) []Message {
	elements, err := r.driver.QueryAll(selector)
	if err != nil {
		r.log.Warn("bubble lookup failed", zap.String("selector", selector), zap.Error(err))
		return nil
	}

	var messages []Message
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			r.log.Debug("failed to read message text", zap.Error(err))
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		messages = append(messages, Message{Role: role, Text: text})
	}
	return messages
}
