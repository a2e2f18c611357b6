package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatpilot/chatpilot/pkg/platform"
)

func validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <platform>",
		Short: "Validate a platform's selector configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func runValidate(platformName string) error {
	cfg, err := platform.Load(platformName, loadSettings().CacheDir)
	if err != nil {
		return err
	}

	fmt.Printf("Platform:      %s\n", cfg.PlatformName)
	fmt.Printf("URL:           %s\n", cfg.URL)
	if !cfg.LastUpdated.IsZero() {
		fmt.Printf("Last updated:  %s\n", cfg.LastUpdated.Format(time.RFC3339))
	}
	fmt.Printf("Timeouts:      page_load=%ds element_visible=%ds message_send=%ds\n",
		cfg.WaitTimeouts.PageLoad, cfg.WaitTimeouts.ElementVisible, cfg.WaitTimeouts.MessageSend)

	if cfg.ArchiveSelectors != nil {
		fmt.Println("Archive:       configured")
	} else {
		fmt.Println("Archive:       not configured (operate only)")
	}

	fmt.Println("Configuration is valid")
	return nil
}
