// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server defines the lifecycle contract of the servers managed by this
// package.
type Server interface {
	// RunServer starts serving requests and blocks until a stop signal has
	// been handled. It returns early with an error if the listener cannot
	// be started or fails while serving.
	RunServer() error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
