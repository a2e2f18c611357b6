// Package main provides the chatpilot command line application: a
// selector-driven operator for web chat interfaces with a live
// reply loop and a conversation archival mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chatpilot/chatpilot/pkg/chaterr"
)

const version = "0.1.0"

const (
	// exitRecalibration signals that the platform's selectors no
	// longer match the page and must be regenerated upstream.
	exitRecalibration = 2
)

var rootCmd = &cobra.Command{
	Use:           "chatpilot",
	Short:         "Operate and archive web chat conversations",
	Long:          "chatpilot drives a web chat interface through its configured selectors:\nit polls for unread conversations, replies through a responder service,\nand can archive full conversation histories to disk.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("chatpilot version %s\n", version)
		},
	})

	rootCmd.AddCommand(operateCommand())
	rootCmd.AddCommand(archiveCommand())
	rootCmd.AddCommand(sessionCommand())
	rootCmd.AddCommand(validateCommand())
}

func execute() error {
	// Load .env early so viper sees its variables.
	_ = godotenv.Load()
	initSettings()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, chaterr.ErrRecalibrationRequired) {
			os.Exit(exitRecalibration)
		}
		os.Exit(1)
	}
}
