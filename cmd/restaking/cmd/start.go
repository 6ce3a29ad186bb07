package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conr2d/restaking/cmd/restaking/app"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the trust graph node",
	Long: `Start the trust graph node with the specified configuration.

This command will:
1. Load configuration from the specified file
2. Initialize all required components
3. Start the node
4. Handle graceful shutdown on interrupt`,
	PreRunE: validateStartFlags,
	RunE:    runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

// validateStartFlags checks if all required flags are provided
func validateStartFlags(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("no config file found, pass one with --config")
	}
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	return nil
}

func runStart(cmd *cobra.Command, args []string) error {
	// create signal channel for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	application := app.New(cmd.Context(), debugMode)

	errChan := make(chan error, 1)
	go func() {
		if err := application.Run(cfgFile); err != nil {
			errChan <- fmt.Errorf("application error: %w", err)
		}
	}()

	select {
	case <-sigChan:
		fmt.Println("\nReceived interrupt signal. Shutting down...")
		if err := application.Shutdown(); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
		return nil
	case err := <-errChan:
		return err
	}
}
