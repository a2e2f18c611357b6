package archive

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chatpilot/chatpilot/pkg/browser"
)

// MediaDownloader resolves image URLs from profile-picture elements and
// downloads them. Every failure here is soft: an unresolvable or
// undownloadable picture is skipped, never fatal.
type MediaDownloader struct {
	driver browser.Driver
	client *http.Client
	log    *zap.Logger
}

// NewMediaDownloader wires a downloader to the shared driver.
func NewMediaDownloader(driver browser.Driver, log *zap.Logger) *MediaDownloader {
	return &MediaDownloader{
		driver: driver,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// DownloadGallery downloads every picture matched by selector into dir,
// returning the saved file names.
func (m *MediaDownloader) DownloadGallery(selector, dir string) []string {
	elements, err := m.driver.QueryAll(selector)
	if err != nil {
		m.log.Warn("gallery lookup failed", zap.Error(err))
		return nil
	}

	var saved []string
	for idx, el := range elements {
		url := m.resolveImageURL(el)
		if url == "" {
			m.log.Debug("no image URL for gallery entry", zap.Int("entry", idx))
			continue
		}
		name := fmt.Sprintf("profile_picture_%d.jpg", idx+1)
		if err := m.download(url, filepath.Join(dir, name)); err != nil {
			m.log.Warn("picture download failed", zap.String("url", url), zap.Error(err))
			continue
		}
		saved = append(saved, name)
	}

	m.log.Info("gallery downloaded", zap.Int("pictures", len(saved)))
	return saved
}

// DownloadMain downloads the single main profile picture matched by
// selector into dir, returning the saved file name or "".
func (m *MediaDownloader) DownloadMain(selector, dir string) string {
	el, err := m.driver.Query(selector)
	if err != nil {
		m.log.Debug("profile picture not found", zap.Error(err))
		return ""
	}

	url := m.resolveImageURL(el)
	if url == "" {
		m.log.Warn("no image URL resolved for profile picture")
		return ""
	}

	const name = "profile_picture.jpg"
	if err := m.download(url, filepath.Join(dir, name)); err != nil {
		m.log.Warn("profile picture download failed", zap.String("url", url), zap.Error(err))
		return ""
	}
	return name
}

// resolveImageURL finds a usable image URL, trying the direct source
// attribute, then the background-image CSS property, then the lazy-load
// source attribute.
func (m *MediaDownloader) resolveImageURL(el browser.Element) string {
	if src, err := el.Attribute("src"); err == nil && strings.HasPrefix(src, "http") {
		return src
	}

	if background, err := el.CSSValue("background-image"); err == nil && background != "" && background != "none" {
		if url := urlFromCSSBackground(background); url != "" {
			return url
		}
	}

	if dataSrc, err := el.Attribute("data-src"); err == nil && strings.HasPrefix(dataSrc, "http") {
		return dataSrc
	}

	return ""
}

// urlFromCSSBackground extracts the URL from a css background-image
// value of the form url("...") or url('...').
func urlFromCSSBackground(value string) string {
	start := strings.Index(value, "url(")
	if start < 0 {
		return ""
	}
	rest := value[start+len("url("):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return ""
	}
	url := strings.Trim(rest[:end], `"' `)
	if !strings.HasPrefix(url, "http") {
		return ""
	}
	return url
}

func (m *MediaDownloader) download(url, path string) error {
	resp, err := m.client.Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
