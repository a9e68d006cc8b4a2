// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package services

import (
	"context"
	"time"

	"github.com/kunw4r/syllabus/internal/logging"
)

// KeyResetter is satisfied by *sources.KeyPool.
type KeyResetter interface {
	Reset()
	Available() int
	Size() int
}

// KeyResetService re-enables spent OMDb keys when the daily quota rolls
// over at midnight UTC.
type KeyResetService struct {
	keys KeyResetter
	name string

	now       func() time.Time
	nextReset func(now time.Time) time.Time
}

// NewKeyResetService creates the service.
func NewKeyResetService(keys KeyResetter) *KeyResetService {
	return &KeyResetService{
		keys:      keys,
		name:      "omdb-key-reset",
		now:       time.Now,
		nextReset: nextUTCMidnight,
	}
}

func nextUTCMidnight(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}

// Serve implements suture.Service.
func (k *KeyResetService) Serve(ctx context.Context) error {
	for {
		now := k.now()
		timer := time.NewTimer(k.nextReset(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			spent := k.keys.Size() - k.keys.Available()
			k.keys.Reset()
			logging.Info().Int("keys_reset", spent).Int("keys_total", k.keys.Size()).Msg("OMDb key pool reset")
		}
	}
}

// String implements fmt.Stringer for suture's log lines.
func (k *KeyResetService) String() string {
	return k.name
}
