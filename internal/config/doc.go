// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (the first source that sets a field wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Fields left unset by every source receive defaults, then the result is
// validated. The entry point is [GetStructuredConfig].
package config
