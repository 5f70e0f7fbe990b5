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
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fillmore-labs.com/stableguard/internal/stability"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] [packages]",
	Short: "Show the stability of composable functions as a tree",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("unstable", false, "only show functions that are not skippable")
}

func runInspect(cmd *cobra.Command, args []string) error {
	a, err := analyze(cmd.Context(), args, true)
	if err != nil {
		return err
	}

	unstable, _ := cmd.Flags().GetBool("unstable")

	w := cmd.OutOrStdout()

	for _, r := range a.results {
		infos := r.Infos()
		if unstable {
			infos = notSkippable(infos)
		}

		if len(infos) == 0 {
			continue
		}

		_, _ = nameColor.Fprintln(w, r.PkgPath)
		writeTree(w, infos)
	}

	return nil
}

func notSkippable(infos []stability.ComposableInfo) []stability.ComposableInfo {
	var kept []stability.ComposableInfo

	for _, info := range infos {
		if info.Restartable && !info.Skippable {
			kept = append(kept, info)
		}
	}

	return kept
}

// writeTree renders functions with their receivers and parameters.
func writeTree(w io.Writer, infos []stability.ComposableInfo) {
	for i, info := range infos {
		last := i == len(infos)-1
		branch, indent := branches(last)

		_, _ = fmt.Fprintf(w, "%s%s %s\n", branch, info.Name, flags(info))

		n := len(info.Receivers) + len(info.Parameters)
		k := 0

		for _, r := range info.Receivers {
			k++
			b, _ := branches(k == n)
			_, _ = fmt.Fprintf(w, "%s%sreceiver %s %s\n", indent, b, r.Type, valueString(r.Stability, r.Reason))
		}

		for _, p := range info.Parameters {
			k++
			b, _ := branches(k == n)
			_, _ = fmt.Fprintf(w, "%s%s%s: %s %s\n", indent, b, p.Name, p.Type, valueString(p.Stability, p.Reason))
		}
	}
}

func branches(last bool) (branch, indent string) {
	if last {
		return "└─ ", "   "
	}

	return "├─ ", "│  "
}

func flags(info stability.ComposableInfo) string {
	switch {
	case !info.Restartable:
		return color.New(color.Faint).Sprint("[non-restartable]")

	case info.SkippableInStrongSkippingMode:
		return runtimeColor.Sprint("[skippable by strong skipping]")

	case info.Skippable:
		return stableColor.Sprint("[skippable]")

	default:
		return unstableColor.Sprint("[restartable, not skippable]")
	}
}

func valueString(v stability.Value, reason string) string {
	var c *color.Color

	switch v {
	case stability.Stable:
		c = stableColor

	case stability.Unstable:
		c = unstableColor

	default:
		c = runtimeColor
	}

	if reason == "" {
		return c.Sprint(v)
	}

	return c.Sprintf("%s (%s)", v, reason)
}
