// Copyright 2025 Poiesic Systems
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

package ingest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Service runs ingestion jobs in the background. Jobs are executed one at a
// time so pipeline stages never interleave across jobs; callers that need
// the result synchronously use Pipeline.Run directly.
type Service struct {
	pipeline *Pipeline
	pool     *ants.Pool
	wg       sync.WaitGroup
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates an ingestion service over a pipeline.
func NewService(p *Pipeline, opts ...ServiceOption) (*Service, error) {
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	s := &Service{
		pipeline: p,
		pool:     pool,
		logger:   slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			pool.Release()
			return nil, optErr
		}
	}

	return s, nil
}

// Submit queues an ingestion job for the given sources. Errors during
// processing are logged but do not surface to the caller.
func (s *Service) Submit(sources []string) error {
	s.wg.Add(1)
	err := s.pool.Submit(func() {
		defer s.wg.Done()
		written, runErr := s.pipeline.Run(context.Background(), sources)
		if runErr != nil {
			s.logger.Error("error ingesting sources", "err", runErr)
			return
		}
		s.logger.Info("background ingestion finished", "chunks", written)
	})
	if err != nil {
		s.wg.Done()
	}
	return err
}

// Wait blocks until all submitted jobs have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Release waits for pending jobs and releases the worker pool.
// The service should not be used after calling Release.
func (s *Service) Release() {
	s.wg.Wait()
	s.pool.Release()
}
