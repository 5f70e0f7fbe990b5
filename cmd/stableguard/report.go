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

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fillmore-labs.com/stableguard/internal/reportfile"
	"fillmore-labs.com/stableguard/internal/stability"
)

var reportCmd = &cobra.Command{
	Use:   "report [flags] [packages]",
	Short: "Write the stability report of composable functions",
	Long:  `Analyze the given packages (default ./...) and write a stability report file`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringP("output", "o", "", "output directory, - for standard output (default from configuration)")
	reportCmd.Flags().String("name", "", "report file name without extension (default from configuration)")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := analyze(cmd.Context(), args, true)
	if err != nil {
		return err
	}

	infos := a.infos()

	output, _ := cmd.Flags().GetString("output")
	if output == "-" {
		return reportfile.Write(cmd.OutOrStdout(), infos)
	}

	path := reportPath(cmd)

	if err := writeReport(path, infos); err != nil {
		return err
	}

	slog.Info("Report written", slog.String("path", path), slog.Int("functions", len(infos)))

	return nil
}

// reportPath is the report file location from flags and configuration.
func reportPath(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("output")
	if dir == "" {
		dir = cfg.Resolve(cfg.OutputDir)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = cfg.ReportName
	}

	return filepath.Join(dir, name+reportfile.Extension)
}

// writeReport replaces the report file atomically.
func writeReport(path string, infos []stability.ComposableInfo) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".stability-*")
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err := reportfile.Write(f, infos); err != nil {
		return errors.Join(fmt.Errorf("report: %w", err), f.Close())
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return os.Rename(f.Name(), path)
}

func readReport(path string) ([]stability.ComposableInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("golden report: %w", err)
	}
	defer f.Close()

	return reportfile.Parse(f)
}
