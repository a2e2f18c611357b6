package operator

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/chaterr"
	"github.com/chatpilot/chatpilot/pkg/platform"
)

const defaultSendAttempts = 3

// Sender delivers reply text through the platform's compose surface.
// Success is "no error through the full attempt sequence"; there is no
// confirmation read-back of the sent message.
type Sender struct {
	driver browser.Driver
	cfg    *platform.Config
	log    *zap.Logger

	// MaxAttempts bounds the retry loop; transient UI failures retry
	// with a fixed Backoff between attempts.
	MaxAttempts int
	Backoff     time.Duration
	// UISettle is the short pause between typing and locating the send
	// control, giving the page time to enable it.
	UISettle time.Duration
}

// NewSender wires a sender to the shared driver and config.
func NewSender(driver browser.Driver, cfg *platform.Config, log *zap.Logger) *Sender {
	return &Sender{
		driver:      driver,
		cfg:         cfg,
		log:         log,
		MaxAttempts: defaultSendAttempts,
		Backoff:     time.Second,
		UISettle:    500 * time.Millisecond,
	}
}

// Send types text into the input field and clicks the send control,
// retrying transient failures up to MaxAttempts. Exhaustion surfaces as
// ErrSelectorNotFound, which the caller interprets as "selectors may be
// stale".
func (s *Sender) Send(text string) error {
	return s.withRetry("send", func() error {
		return s.attemptClick(text)
	})
}

// SendWithEnter submits via the Enter key instead of the send control.
// It shares the retry policy with Send but never falls back to the
// click path; the caller chooses one path per configuration.
func (s *Sender) SendWithEnter(text string) error {
	return s.withRetry("send with enter", func() error {
		return s.attemptEnter(text)
	})
}

func (s *Sender) withRetry(op string, attempt func() error) error {
	var lastErr error
	for try := 1; try <= s.MaxAttempts; try++ {
		err := attempt()
		if err == nil {
			s.log.Info("message sent", zap.String("path", op), zap.Int("attempt", try))
			return nil
		}
		if !chaterr.IsTransient(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
		lastErr = err
		if try < s.MaxAttempts {
			s.log.Warn("send attempt failed, retrying",
				zap.Int("attempt", try), zap.Int("max", s.MaxAttempts), zap.Error(err))
			time.Sleep(s.Backoff)
		}
	}
	return fmt.Errorf("%w: %s failed after %d attempts, selectors may be outdated: %v",
		chaterr.ErrSelectorNotFound, op, s.MaxAttempts, lastErr)
}

func (s *Sender) attemptClick(text string) error {
	if _, err := s.prepareInput(text); err != nil {
		return err
	}

	time.Sleep(s.UISettle)

	button, err := s.driver.WaitClickable(s.cfg.Selectors.SendButton, s.cfg.WaitTimeouts.ElementVisibleDuration())
	if err != nil {
		return err
	}
	if err := button.Click(); err != nil {
		return err
	}

	time.Sleep(s.cfg.WaitTimeouts.MessageSendDuration())
	return nil
}

func (s *Sender) attemptEnter(text string) error {
	input, err := s.prepareInput(text)
	if err != nil {
		return err
	}
	if err := input.Press("Enter"); err != nil {
		return err
	}

	time.Sleep(s.cfg.WaitTimeouts.MessageSendDuration())
	return nil
}

// prepareInput locates the input field, clears it, and types text. Some
// contenteditable surfaces reject Clear; those get select-all plus
// delete instead.
func (s *Sender) prepareInput(text string) (browser.Element, error) {
	input, err := s.driver.WaitPresent(s.cfg.Selectors.InputField, s.cfg.WaitTimeouts.ElementVisibleDuration())
	if err != nil {
		return nil, err
	}

	if err := input.Clear(); err != nil {
		if fallbackErr := s.clearBySelection(input); fallbackErr != nil {
			s.log.Warn("could not clear input field", zap.Error(fallbackErr))
		}
	}

	if err := input.Type(text); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *Sender) clearBySelection(input browser.Element) error {
	if err := input.Press("ControlOrMeta+a"); err != nil {
		return err
	}
	return input.Press("Delete")
}
