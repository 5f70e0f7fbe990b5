// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Stableguard analyzes the stability of composable functions.
//
// Usage:
//
//	stableguard report [packages]
//	stableguard check [packages]
//	stableguard instrument -o <dir> [packages]
//	stableguard inspect [packages]
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/trace"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fillmore-labs.com/stableguard/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "stableguard",
	Short: "Stability analysis for composable Go functions",
	Long: `stableguard infers which parameters of composable functions are stable,
writes stability reports, checks them against a golden copy and instruments
traced functions with recomposition logging`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// cfg is the effective configuration, set up before every command.
var cfg config.File

var traceFile *os.File

func main() {
	rootCmd.AddCommand(reportCmd, checkCmd, instrumentCmd, inspectCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "configuration file (default: search for "+config.FileName+")")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("jobs", 0, "max packages analyzed in parallel (0=one per package)")
	flags.Bool("tests", false, "analyze test files")
	flags.Bool("strong-skipping", false, "treat every restartable function as skippable")
	flags.Bool("no-cache", false, "disable the result cache")
	flags.String("trace", "", "write a runtime trace to file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup configures logging and colors and loads the configuration.
func setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	verbose, _ := flags.GetBool("verbose")

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	mode, _ := flags.GetString("color")
	switch mode {
	case "auto":

	case "on":
		color.NoColor = false

	case "off":
		color.NoColor = true

	default:
		return fmt.Errorf("unknown color mode %q", mode)
	}

	var err error

	path, _ := flags.GetString("config")
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFrom(".")
	}

	if err != nil {
		return err
	}

	if cfg.Path != "" {
		slog.Debug("Configuration loaded", slog.String("path", cfg.Path))
	}

	if flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}

	if flags.Changed("tests") {
		cfg.IncludeTests, _ = flags.GetBool("tests")
	}

	if flags.Changed("strong-skipping") {
		cfg.StrongSkipping, _ = flags.GetBool("strong-skipping")
	}

	if out, _ := flags.GetString("trace"); out != "" {
		return startTrace(out)
	}

	return nil
}

func startTrace(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	if err := trace.Start(f); err != nil {
		return errors.Join(fmt.Errorf("trace: %w", err), f.Close())
	}

	traceFile = f

	return nil
}

func teardown(*cobra.Command, []string) error {
	if traceFile == nil {
		return nil
	}

	trace.Stop()

	err := traceFile.Close()
	traceFile = nil

	return err
}
