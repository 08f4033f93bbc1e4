// Package main is the entry point for the glimmer CLI.
//
// Glimmer can be run either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone
// binary approach.
//
// Usage:
//
//	glimmer serve -c config.yaml    # Start the API server
//	glimmer validate -c config.yaml # Validate configuration
//	glimmer version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "glimmer",
	Short: "HTTP control for an 8x8 LED matrix",
	Long: `Glimmer serves an HTTP API for driving an 8x8 WS2812 LED matrix.

It accepts full-grid and single-pixel writes, keeps a short history of
submitted grids, and powers the display off automatically after an
idle period. Without attached hardware it runs in simulation mode.

Quick start:
  1. Create a config file (glimmer.yaml)
  2. Run: glimmer serve -c glimmer.yaml
  3. POST a grid to http://localhost:5000/grid

Example config:
  port: 5000
  brightness: 0.5
  auto_off: 10s
  driver: auto`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this glimmer binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("glimmer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
