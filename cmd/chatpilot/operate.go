package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/logging"
	"github.com/chatpilot/chatpilot/pkg/operator"
	"github.com/chatpilot/chatpilot/pkg/platform"
	"github.com/chatpilot/chatpilot/pkg/session"
)

func operateCommand() *cobra.Command {
	var (
		manualWait    time.Duration
		headless      bool
		sendWithEnter bool
	)

	cmd := &cobra.Command{
		Use:   "operate <platform>",
		Short: "Run the live reply loop for a platform",
		Long:  "Authenticates against the platform, then continuously polls for unread\nconversations and replies to each through the configured responder.\nExits with code 2 when the selectors no longer match the page.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("headless") {
				headless = loadSettings().Headless
			}
			return runOperate(cmd, args[0], manualWait, headless, sendWithEnter)
		},
	}

	cmd.Flags().DurationVar(&manualWait, "manual-wait", 60*time.Second, "window granted for manual login when no session is restorable")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	cmd.Flags().BoolVar(&sendWithEnter, "send-with-enter", false, "submit messages with the Enter key instead of the send control")

	return cmd
}

func runOperate(cmd *cobra.Command, platformName string, manualWait time.Duration, headless, sendWithEnter bool) error {
	set := loadSettings()

	log, err := logging.New(set.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("platform", platformName))

	cfg, err := platform.Load(platformName, set.CacheDir)
	if err != nil {
		return err
	}

	sessions, err := session.NewStore(set.SessionDir)
	if err != nil {
		return err
	}

	driver, err := browser.Launch(browser.LaunchOptions{
		Headless:    headless,
		PageTimeout: time.Duration(cfg.WaitTimeouts.PageLoad) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() { _ = driver.Close() }()

	var responder operator.Responder
	if set.ResponderURL != "" {
		responder = operator.NewHTTPResponder(set.ResponderURL, set.ResponderKey, log)
	} else {
		log.Warn("no responder service configured, using canned replies")
		responder = operator.EchoResponder{}
	}

	opts := operator.DefaultOptions()
	opts.ManualLoginWait = manualWait
	opts.SendWithEnter = sendWithEnter
	if set.PollInterval > 0 {
		opts.PollInterval = set.PollInterval
	}

	op := operator.New(driver, cfg, sessions, responder, log, opts)
	return op.Run(cmd.Context())
}
