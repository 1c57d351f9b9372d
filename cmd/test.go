package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c01000100/plex-digest/mailer"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:     "test",
	Short:   "Test connections to Tautulli and the SMTP server",
	Long:    `Test the connection to your Tautulli instance and the SMTP server without sending anything.`,
	PreRunE: initializeApp,
	RunE:    runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to Tautulli at %s...\n", cfg.Tautulli.URL)

	// Connection is already tested during client creation
	fmt.Println("✓ Tautulli connection successful!")

	fmt.Printf("\nTesting SMTP connection to %s:%d...\n", cfg.Email.Host, cfg.Email.Port)

	dispatcher := mailer.New(cfg.Email, logger)
	if err := dispatcher.Dial(); err != nil {
		return err
	}

	fmt.Println("✓ SMTP connection successful!")

	if len(cfg.Email.To) > 0 {
		fmt.Printf("\nStatic recipients configured: %d\n", len(cfg.Email.To))
	}

	return nil
}
