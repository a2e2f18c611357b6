package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/archive"
	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/logging"
	"github.com/chatpilot/chatpilot/pkg/operator"
	"github.com/chatpilot/chatpilot/pkg/platform"
	"github.com/chatpilot/chatpilot/pkg/session"
)

func archiveCommand() *cobra.Command {
	var (
		output     string
		maxConvs   int
		manualWait time.Duration
		noHeadless bool
		freshLogin bool
	)

	cmd := &cobra.Command{
		Use:   "archive <platform>",
		Short: "Archive conversation histories to disk",
		Long:  "Walks the conversation list and writes each conversation's full scrolled\nhistory, profile metadata, and pictures into a per-conversation directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(cmd, args[0], output, maxConvs, manualWait, !noHeadless, freshLogin)
		},
	}

	cmd.Flags().StringVar(&output, "output", "conversation_archives", "directory receiving the archived conversations")
	cmd.Flags().IntVar(&maxConvs, "max-conversations", 0, "archive at most this many conversations (0 = all)")
	cmd.Flags().DurationVar(&manualWait, "manual-wait", 60*time.Second, "window granted for manual login when no session is restorable")
	cmd.Flags().BoolVar(&noHeadless, "no-headless", false, "show the browser window")
	cmd.Flags().BoolVar(&freshLogin, "fresh-login", false, "discard the persisted session and log in again")

	return cmd
}

func runArchive(cmd *cobra.Command, platformName, output string, maxConvs int, manualWait time.Duration, headless, freshLogin bool) error {
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
	if freshLogin {
		if err := sessions.Delete(platformName); err != nil {
			return fmt.Errorf("discard session: %w", err)
		}
		log.Info("persisted session discarded")
	}

	driver, err := browser.Launch(browser.LaunchOptions{
		Headless:    headless,
		PageTimeout: time.Duration(cfg.WaitTimeouts.PageLoad) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() { _ = driver.Close() }()

	auth := operator.NewAuthenticator(driver, cfg, sessions, log)
	if err := auth.EnsureAuthenticated(cmd.Context(), manualWait); err != nil {
		return err
	}

	archiver, err := archive.NewArchiver(driver, cfg, output, log)
	if err != nil {
		return err
	}

	archived, err := archiver.ArchiveAll(cmd.Context(), maxConvs)
	if err != nil {
		return err
	}

	fmt.Printf("Archived %d conversations to %s\n", archived, output)
	return nil
}
