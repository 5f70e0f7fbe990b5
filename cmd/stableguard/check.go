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
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fillmore-labs.com/stableguard/internal/reportfile"
)

// ErrRegressions is returned when functions lost stability compared to the golden report.
var ErrRegressions = errors.New("stability regressions")

var checkCmd = &cobra.Command{
	Use:   "check [flags] [packages]",
	Short: "Compare stability against the golden report",
	Long:  `Analyze the given packages (default ./...) and fail when a function became less stable than recorded in the golden report`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("golden", "", "golden report file (default: the report path)")
	checkCmd.Flags().StringP("output", "o", "", "directory of the golden report (default from configuration)")
	checkCmd.Flags().String("name", "", "golden report name without extension (default from configuration)")
	checkCmd.Flags().Bool("strict", false, "also fail on added, removed and improved functions")
}

func runCheck(cmd *cobra.Command, args []string) error {
	golden, _ := cmd.Flags().GetString("golden")
	if golden == "" {
		golden = reportPath(cmd)
	}

	want, err := readReport(golden)
	if err != nil {
		return err
	}

	a, err := analyze(cmd.Context(), args, true)
	if err != nil {
		return err
	}

	changes := reportfile.Diff(want, a.infos())
	printChanges(cmd.OutOrStdout(), changes)

	if regressions := reportfile.Regressions(changes); len(regressions) > 0 {
		return fmt.Errorf("%w: %d functions", ErrRegressions, len(regressions))
	}

	if strict, _ := cmd.Flags().GetBool("strict"); strict && len(changes) > 0 {
		return fmt.Errorf("report out of date: %d changes", len(changes))
	}

	return nil
}

func printChanges(w io.Writer, changes []reportfile.Change) {
	for _, c := range changes {
		switch c.Kind {
		case reportfile.Regressed, reportfile.Removed:
			_, _ = unstableColor.Fprintln(w, c)

		case reportfile.Improved:
			_, _ = stableColor.Fprintln(w, c)

		default:
			_, _ = fmt.Fprintln(w, c)
		}
	}
}

var (
	stableColor   = color.New(color.FgGreen)
	unstableColor = color.New(color.FgRed)
	runtimeColor  = color.New(color.FgYellow)
	nameColor     = color.New(color.Bold)
)
