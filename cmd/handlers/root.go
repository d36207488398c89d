/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"capturekit/internal/config"
	"capturekit/internal/store"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "capturekit",
		Short: "CaptureKit analyzes posts, tracks benchmarks, and drafts replies.",
		Long: `CaptureKit is a content intelligence toolkit for social platforms.

It analyzes what makes posts work (hooks, emotional triggers, specificity,
platform fit), aggregates patterns from benchmark accounts and viral posts,
and drafts reply candidates in your voice, scored against those patterns.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.capturekit.yaml)")

	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewReplyCmd())
	rootCmd.AddCommand(NewBenchmarkCmd())
	rootCmd.AddCommand(NewProfileCmd())
	rootCmd.AddCommand(NewQueueCmd())
	rootCmd.AddCommand(NewReviewCmd())
	rootCmd.AddCommand(NewStatsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the persistence layer under the configured data dir.
func openStore() (*store.Store, error) {
	return store.NewStore(config.GetApp().DataDir)
}

// readInput returns inline text when given, otherwise the contents of the
// file flag. Exactly one of the two is required.
func readInput(args []string, file string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(raw), nil
	}
	return "", fmt.Errorf("provide post text as an argument or via --file")
}
