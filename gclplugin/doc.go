// Copyright 2025 Oliver Eikemeier. All Rights Reserved.
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

/*
Package gclplugin provides golangci-lint plugin integration for the [stableguard] analyzer.

# Usage

1. Add a file `.custom-gcl.yaml` to your source with:

	---
	version: v2.7.0

	name: golangci-lint
	destination: .

	plugins:
	  - module: fillmore-labs.com/stableguard
	    import: fillmore-labs.com/stableguard/gclplugin
	    version: v0.0.1

2. Run `golangci-lint custom` from your project root.

This will create a custom `golangci-lint` executable in your project root.

3. Configure the linter in `.golangci.yaml`:

	---
	version: "2"
	linters:
	  default: none
	  enable:
	    - stableguard
	  settings:
	    custom:
	      stableguard:
	        type: module
	        description: "stableguard reports composable functions that cannot be skipped."
	        original-url: "https://fillmore-labs.com/stableguard"
	        settings:
	          strong-skipping: false
	          report: exported
	          stable-types:
	            - "example.com/geo.*"
	            - "example.com/ui.Color"

The settings are optional:

  - include-tests: analyze functions in test files.
  - strong-skipping: treat every restartable function as skippable.
  - stable-types: type names or package wildcards known to be stable.
  - report: which non-skippable functions are reported, one of all, exported or off.

4. Run the linter:

	./golangci-lint run .

[stableguard]: https://github.com/fillmore-labs/stableguard#stableguard
*/
package gclplugin
