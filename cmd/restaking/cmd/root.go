package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information
	Version   = "1.0.0"
	CommitSHA = "unknown"
	BuildTime = "unknown"

	// Global flags
	cfgFile   string
	debugMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restaking",
	Short: "Restaking Trust Graph Node",
	Long: `Restaking Trust Graph Node maintains the on-graph relationships
between AVSes, operators, vaults and slashers.

This application provides the following features:
- Entity and relationship record management
- Slot-gated relationship activation
- Signed operation submission over HTTP
- Metrics endpoints`,
	Version: fmt.Sprintf("%s (Build: %s, Commit: %s)", Version, BuildTime, CommitSHA),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./config/restaking.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"enable debug mode")

	rootCmd.SetVersionTemplate(`Version: {{.Version}}
`)
}

// initConfig locates the config file if one was not given explicitly
func initConfig() {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			fmt.Printf("Config file not found: %s\n", cfgFile)
			os.Exit(1)
		}
		return
	}
	defaultConfig := "./config/restaking.yaml"
	if _, err := os.Stat(defaultConfig); err == nil {
		cfgFile = defaultConfig
	}
}
