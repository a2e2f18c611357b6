package operator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/chaterr"
	"github.com/chatpilot/chatpilot/pkg/platform"
	"github.com/chatpilot/chatpilot/pkg/session"
)

// Options tunes the live-operation loop.
type Options struct {
	// PollInterval is the pause between poll cycles when the queue is
	// empty.
	PollInterval time.Duration
	// ManualLoginWait is the window granted for out-of-band login.
	ManualLoginWait time.Duration
	// SendWithEnter selects key submission over the send-control click
	// path for this platform.
	SendWithEnter bool
}

// DefaultOptions returns the loop defaults.
func DefaultOptions() Options {
	return Options{
		PollInterval:    10 * time.Second,
		ManualLoginWait: 60 * time.Second,
	}
}

// Operator drives the live path: authenticate, then poll, schedule,
// read, obtain a reply, and deliver it, one conversation at a time over
// the single shared driver.
type Operator struct {
	cfg       *platform.Config
	auth      *Authenticator
	poller    *Poller
	scheduler *Scheduler
	reader    *Reader
	sender    *Sender
	responder Responder
	log       *zap.Logger
	opts      Options

	// interConversationPause separates consecutive conversations;
	// errorPause delays the next cycle after a non-fatal error.
	interConversationPause time.Duration
	errorPause             time.Duration
}

// New assembles an operator over a shared driver. The driver's
// lifecycle belongs to the caller; the operator never closes it.
func New(driver browser.Driver, cfg *platform.Config, sessions *session.Store, responder Responder, log *zap.Logger, opts Options) *Operator {
	scheduler := NewScheduler()
	return &Operator{
		cfg:                    cfg,
		auth:                   NewAuthenticator(driver, cfg, sessions, log),
		poller:                 NewPoller(driver, cfg, scheduler, log),
		scheduler:              scheduler,
		reader:                 NewReader(driver, cfg, log),
		sender:                 NewSender(driver, cfg, log),
		responder:              responder,
		log:                    log,
		opts:                   opts,
		interConversationPause: 2 * time.Second,
		errorPause:             5 * time.Second,
	}
}

// Run authenticates and enters the operating loop until ctx is
// cancelled or a fatal condition occurs. ErrRecalibrationRequired is
// returned when delivery selectors are exhausted; the caller maps it to
// the distinct exit signal.
func (o *Operator) Run(ctx context.Context) error {
	o.log.Info("starting operator", zap.String("platform", o.cfg.PlatformName))

	if err := o.auth.EnsureAuthenticated(ctx, o.opts.ManualLoginWait); err != nil {
		return err
	}

	cycle := 0
	for {
		if err := ctx.Err(); err != nil {
			o.log.Info("operator stopping", zap.Int("cycles", cycle))
			return nil
		}
		cycle++

		err := o.runCycle(ctx)
		if err == nil {
			continue
		}
		if errors.Is(err, chaterr.ErrRecalibrationRequired) || errors.Is(err, context.Canceled) {
			return err
		}

		o.log.Error("cycle failed, continuing", zap.Int("cycle", cycle), zap.Error(err))
		if sleepErr := sleepCtx(ctx, o.errorPause); sleepErr != nil {
			return nil
		}
	}
}

func (o *Operator) runCycle(ctx context.Context) error {
	unread, err := o.poller.Poll()
	if err != nil {
		return err
	}
	if len(unread) > 0 {
		o.scheduler.Prioritize(unread)
	}

	id, ok := o.scheduler.Next()
	if !ok {
		o.log.Debug("no active conversations", zap.Duration("sleep", o.opts.PollInterval))
		return sleepCtx(ctx, o.opts.PollInterval)
	}

	if err := o.processConversation(ctx, id); err != nil {
		if errors.Is(err, chaterr.ErrSelectorNotFound) {
			return fmt.Errorf("%w: delivery selectors failed for %q: %v",
				chaterr.ErrRecalibrationRequired, o.cfg.PlatformName, err)
		}
		return err
	}

	// Session artifacts refresh on successful operations so progress
	// survives a crash.
	o.auth.PersistSession()

	return sleepCtx(ctx, o.interConversationPause)
}

// processConversation runs read, respond, and deliver for one
// conversation. Empty history and empty replies are both skips, not
// errors.
func (o *Operator) processConversation(ctx context.Context, id string) error {
	conv := o.reader.ReadConversation(id)
	if len(conv.Messages) == 0 {
		o.log.Info("conversation empty, skipping", zap.String("conversation", id))
		return nil
	}

	reply, err := o.responder.Reply(ctx, conv)
	if err != nil {
		o.log.Warn("responder failed, nothing to send", zap.String("conversation", id), zap.Error(err))
		return nil
	}
	if reply == "" {
		o.log.Info("empty reply, skipping send", zap.String("conversation", id))
		return nil
	}

	if o.opts.SendWithEnter {
		err = o.sender.SendWithEnter(reply)
	} else {
		err = o.sender.Send(reply)
	}
	if err != nil {
		return err
	}

	o.log.Info("conversation processed", zap.String("conversation", id))
	return nil
}
