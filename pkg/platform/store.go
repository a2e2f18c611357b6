package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chatpilot/chatpilot/pkg/chaterr"
)

// FileName returns the cache file name for a platform, lowercased with
// spaces and dashes folded to underscores.
func FileName(platformName string) string {
	name := strings.ToLower(platformName)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name + ".json"
}

// Load reads and validates the selector configuration for a platform
// from dir. A missing or invalid file yields ErrPlatformNotConfigured.
func Load(platformName, dir string) (*Config, error) {
	path := filepath.Join(dir, FileName(platformName))

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no cached config for %q at %s", chaterr.ErrPlatformNotConfigured, platformName, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid config for %q: %v", chaterr.ErrPlatformNotConfigured, platformName, err)
	}

	if cfg.WaitTimeouts == (WaitTimeouts{}) {
		cfg.WaitTimeouts = DefaultWaitTimeouts()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: config for %q rejected: %v", chaterr.ErrPlatformNotConfigured, platformName, err)
	}

	return &cfg, nil
}

// Save writes the configuration to dir, creating it if necessary. The
// config is validated before writing so a broken config never reaches
// disk.
func Save(cfg *Config, dir string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	path := filepath.Join(dir, FileName(cfg.PlatformName))
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}

	return nil
}
