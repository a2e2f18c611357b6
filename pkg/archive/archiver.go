package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/platform"
)

// Archiver orchestrates the archival path over the full conversation
// list: open each conversation, harvest its history, extract profile
// and media, and export the artifacts. One conversation's failure skips
// it and continues with the next.
type Archiver struct {
	driver    browser.Driver
	cfg       *platform.Config
	outputDir string
	log       *zap.Logger

	profiles  *ProfileExtractor
	media     *MediaDownloader
	harvester *Harvester
	exporter  *Exporter

	// ListTimeout bounds the initial conversation-list wait;
	// OpenTimeout bounds each conversation's message-container wait.
	ListTimeout time.Duration
	OpenTimeout time.Duration
}

// NewArchiver assembles the archival pipeline. The config must carry
// archive selectors; operating without them is a configuration error.
func NewArchiver(driver browser.Driver, cfg *platform.Config, outputDir string, log *zap.Logger) (*Archiver, error) {
	if cfg.ArchiveSelectors == nil {
		return nil, fmt.Errorf("platform %q has no archive selectors configured", cfg.PlatformName)
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &Archiver{
		driver:      driver,
		cfg:         cfg,
		outputDir:   outputDir,
		log:         log,
		profiles:    NewProfileExtractor(driver, cfg.ArchiveSelectors, log),
		media:       NewMediaDownloader(driver, log),
		harvester:   NewHarvester(driver, cfg, log),
		exporter:    NewExporter(),
		ListTimeout: 15 * time.Second,
		OpenTimeout: 10 * time.Second,
	}, nil
}

// ArchiveAll walks the conversation list and archives each conversation
// up to max (0 means all). It returns the number successfully archived;
// per-conversation failures lower the count but never abort the run.
func (a *Archiver) ArchiveAll(ctx context.Context, max int) (int, error) {
	if _, err := a.driver.WaitPresent(a.cfg.Selectors.ConversationList, a.ListTimeout); err != nil {
		return 0, fmt.Errorf("conversation list not found: %w", err)
	}

	entries, err := a.driver.QueryAll(a.cfg.ArchiveSelectors.ConversationItem)
	if err != nil {
		return 0, fmt.Errorf("list conversations: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("no conversations found")
	}

	total := len(entries)
	if max > 0 && max < total {
		total = max
		entries = entries[:max]
	}
	a.log.Info("starting archive run", zap.Int("conversations", total))

	archived := 0
	for idx, entry := range entries {
		if err := ctx.Err(); err != nil {
			a.log.Info("archive run cancelled", zap.Int("archived", archived))
			return archived, nil
		}

		a.log.Info("archiving conversation", zap.Int("index", idx+1), zap.Int("total", total))

		if err := a.openConversation(entry); err != nil {
			a.log.Error("could not open conversation, skipping", zap.Int("index", idx+1), zap.Error(err))
			continue
		}

		if err := a.ArchiveCurrent(); err != nil {
			a.log.Error("conversation archive failed, skipping", zap.Int("index", idx+1), zap.Error(err))
			continue
		}
		archived++
	}

	a.log.Info("archive run complete", zap.Int("archived", archived), zap.Int("total", total))
	return archived, nil
}

func (a *Archiver) openConversation(entry browser.Element) error {
	if err := entry.Click(); err != nil {
		return fmt.Errorf("click conversation entry: %w", err)
	}
	if _, err := a.driver.WaitPresent(a.cfg.ArchiveSelectors.MessageContainer, a.OpenTimeout); err != nil {
		return fmt.Errorf("conversation did not load: %w", err)
	}
	return nil
}

// ArchiveCurrent archives the currently open conversation: profile
// first (its name determines the output directory and is required),
// then pictures, then the scrolled-out message history, then the export
// artifacts.
func (a *Archiver) ArchiveCurrent() error {
	profile, err := a.profiles.Extract()
	if err != nil {
		return fmt.Errorf("extract profile: %w", err)
	}

	dir := filepath.Join(a.outputDir, SanitizeName(profile.Name))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create conversation dir: %w", err)
	}

	profile.Pictures = a.downloadPictures(dir)

	a.harvester.LoadFullHistory()
	messages, err := a.harvester.ExtractMessages()
	if err != nil {
		return fmt.Errorf("extract messages: %w", err)
	}

	if err := a.exporter.ExportConversation(profile, messages, filepath.Join(dir, "conversation.md")); err != nil {
		return err
	}
	if err := a.exporter.ExportProfile(profile, filepath.Join(dir, "profile.json")); err != nil {
		return err
	}

	a.log.Info("conversation archived",
		zap.String("name", profile.Name),
		zap.Int("messages", len(messages)),
		zap.Int("pictures", len(profile.Pictures)))
	return nil
}

func (a *Archiver) downloadPictures(dir string) []string {
	if gallery := a.cfg.ArchiveSelectors.GalleryPictures; gallery != "" {
		return a.media.DownloadGallery(gallery, dir)
	}
	if name := a.media.DownloadMain(a.cfg.ArchiveSelectors.ProfilePicture, dir); name != "" {
		return []string{name}
	}
	return nil
}
