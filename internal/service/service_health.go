// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "context"

// Pinger is a backend that can report its liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthService struct {
	pinger Pinger
}

func NewHealthService(pinger Pinger) HealthService {
	return &healthService{pinger: pinger}
}

func (s *healthService) Check(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	return s.pinger.Ping(ctx)
}
