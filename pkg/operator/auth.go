package operator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/chaterr"
	"github.com/chatpilot/chatpilot/pkg/platform"
	"github.com/chatpilot/chatpilot/pkg/session"
)

// AuthState is the authenticator's position in its state machine.
type AuthState int

const (
	StateUnknown AuthState = iota
	StateChecking
	StateAwaitingManual
	StateAuthenticated
	StateFailed
)

func (s AuthState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAwaitingManual:
		return "awaiting_manual"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Authenticator drives the platform into an authenticated state,
// reusing persisted credential artifacts when possible and falling back
// to a manual-login window (QR scan or similar done by an operator).
type Authenticator struct {
	driver   browser.Driver
	cfg      *platform.Config
	sessions *session.Store
	log      *zap.Logger
	state    AuthState

	// settle is the fixed pause after navigation for redirects to
	// complete; loginCheck bounds each logged-in probe.
	settle     time.Duration
	loginCheck time.Duration
}

// NewAuthenticator wires an authenticator to the shared driver and the
// session store.
func NewAuthenticator(driver browser.Driver, cfg *platform.Config, sessions *session.Store, log *zap.Logger) *Authenticator {
	return &Authenticator{
		driver:     driver,
		cfg:        cfg,
		sessions:   sessions,
		log:        log,
		state:      StateUnknown,
		settle:     3 * time.Second,
		loginCheck: 5 * time.Second,
	}
}

// State returns the current state machine position.
func (a *Authenticator) State() AuthState {
	return a.state
}

// EnsureAuthenticated navigates to the platform, restores a persisted
// session when one exists, and verifies the authenticated interface is
// present. If it is not, the operator is given manualWait to complete
// login out-of-band, after which the check is repeated exactly once.
// Failure is terminal for the run; it is never retried in a loop.
func (a *Authenticator) EnsureAuthenticated(ctx context.Context, manualWait time.Duration) error {
	a.state = StateChecking
	a.log.Info("ensuring authentication", zap.String("platform", a.cfg.PlatformName))

	if err := a.driver.Navigate(a.cfg.URL); err != nil {
		a.state = StateFailed
		return fmt.Errorf("navigate to platform: %w", err)
	}

	if cookies, ok := a.sessions.Load(a.cfg.PlatformName); ok {
		a.log.Info("restoring persisted session", zap.Int("cookies", len(cookies)))
		if err := a.driver.SetCookies(cookies); err != nil {
			a.log.Warn("could not restore session, continuing without it", zap.Error(err))
		} else if err := a.driver.Reload(); err != nil {
			a.log.Warn("reload after session restore failed", zap.Error(err))
		}
	}

	if err := sleepCtx(ctx, a.settle); err != nil {
		a.state = StateFailed
		return err
	}

	if a.isLoggedIn() {
		return a.authenticated("persisted session")
	}

	a.state = StateAwaitingManual
	a.log.Warn("manual login required, complete it in the browser window",
		zap.Duration("window", manualWait))

	if err := sleepCtx(ctx, manualWait); err != nil {
		a.state = StateFailed
		return err
	}

	if a.isLoggedIn() {
		return a.authenticated("manual login")
	}

	a.state = StateFailed
	return fmt.Errorf("%w: %s did not reach the authenticated interface within the manual-login window",
		chaterr.ErrAuthenticationFailed, a.cfg.PlatformName)
}

// PersistSession captures the current credential artifacts. It is
// called on every successful transition into authenticated and may be
// called again after successful operations so partial progress survives
// a crash.
func (a *Authenticator) PersistSession() {
	cookies, err := a.driver.Cookies()
	if err != nil {
		a.log.Warn("could not read cookies for persistence", zap.Error(err))
		return
	}
	if err := a.sessions.Save(a.cfg.PlatformName, cookies); err != nil {
		a.log.Warn("could not persist session", zap.Error(err))
	}
}

func (a *Authenticator) authenticated(via string) error {
	a.state = StateAuthenticated
	a.log.Info("authenticated", zap.String("via", via))
	a.PersistSession()
	return nil
}

// isLoggedIn probes for the main-interface indicator within a short
// bounded timeout.
func (a *Authenticator) isLoggedIn() bool {
	_, err := a.driver.WaitPresent(a.cfg.Selectors.ConversationList, a.loginCheck)
	return err == nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
