package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatpilot/chatpilot/pkg/browser"
	"github.com/chatpilot/chatpilot/pkg/session"
)

func sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage persisted platform sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <platform> <cookies.json>",
		Short: "Import a cookie export as the platform's session",
		Long:  "Reads a JSON array of cookies, as exported from a logged-in browser,\nand stores it as the platform's persisted session.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return importSession(args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <platform>",
		Short: "Delete the platform's persisted session",
		RunE: func(_ *cobra.Command, args []string) error {
			return deleteSession(args[0])
		},
	})

	return cmd
}

func importSession(platformName, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cookie export: %w", err)
	}

	var cookies []browser.Cookie
	if err := json.Unmarshal(raw, &cookies); err != nil {
		return fmt.Errorf("parse cookie export %s: %w", path, err)
	}
	if len(cookies) == 0 {
		return fmt.Errorf("cookie export %s contains no cookies", path)
	}

	store, err := session.NewStore(loadSettings().SessionDir)
	if err != nil {
		return err
	}
	if err := store.Save(platformName, cookies); err != nil {
		return err
	}

	fmt.Printf("Imported %d cookies for %s\n", len(cookies), platformName)
	return nil
}

func deleteSession(platformName string) error {
	store, err := session.NewStore(loadSettings().SessionDir)
	if err != nil {
		return err
	}
	if err := store.Delete(platformName); err != nil {
		return err
	}

	fmt.Printf("Deleted session for %s\n", platformName)
	return nil
}
